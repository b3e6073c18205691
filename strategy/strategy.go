package strategy

import (
	"errors"
	"fmt"

	"github.com/dquaner/my-flux/ctxmap"
	"github.com/dquaner/my-flux/hooks"
)

// ContextKey stores a subscription-local Failure strategy in a
// ctxmap.Context, letting one sequence override the configured policy.
const ContextKey = "myflux.onNextError.localStrategy"

// Failure evaluates whether an error raised during signal delivery can be
// recovered from, allowing the sequence to continue.
//
// Implementations hold no per-subscription state and are safe to share.
type Failure interface {
	// CanResume reports whether the sequence can continue past this error.
	// value is the offending value, or nil when not applicable.
	CanResume(err error, value any) bool

	// Process performs the recovery side effects for an error, so that it is
	// not completely swallowed.
	//
	// Returns:
	//   - error: nil when the error was consumed and the sequence may resume;
	//     the original error when this strategy cannot resume it; a new error
	//     (suppressing the original) when recovery itself failed
	Process(err error, value any, sctx *ctxmap.Context) error
}

// Stop returns the strategy that never lets any error resume. Processing
// wraps the error to flag the misuse of asking a non-resuming strategy to
// recover.
func Stop() Failure { return stopStrategy{} }

// ResumeDrop returns the strategy that lets every error resume. Processing
// routes the offending value to the dropped-value sink and the error to the
// dropped-error sink, then reports recovered.
func ResumeDrop() Failure { return resumeDrop{} }

// ResumeDropIf returns a ResumeDrop variant gated by causePredicate: only
// matching errors are resumable, anything else propagates untouched.
func ResumeDropIf(causePredicate func(error) bool) Failure {
	return resumeDrop{causePredicate: causePredicate}
}

// Resume returns the strategy that lets every error resume by delegating the
// error and the offending value to errorConsumer. A panic inside the
// consumer suppresses and replaces the original error for propagation.
func Resume(errorConsumer func(err error, value any)) Failure {
	return resume{errorConsumer: errorConsumer}
}

// ResumeIf returns a Resume variant gated by causePredicate: only matching
// errors are delegated, anything else propagates untouched.
func ResumeIf(causePredicate func(error) bool, errorConsumer func(err error, value any)) Failure {
	return resume{causePredicate: causePredicate, errorConsumer: errorConsumer}
}

// FromContext returns the subscription-local strategy bound in sctx, or
// fallback when none is bound.
func FromContext(sctx *ctxmap.Context, fallback Failure) Failure {
	if sctx != nil {
		if local, ok := sctx.Lookup(ContextKey); ok {
			if f, ok := local.(Failure); ok {
				return f
			}
		}
	}

	return fallback
}

type stopStrategy struct{}

func (stopStrategy) CanResume(error, any) bool { return false }

func (stopStrategy) Process(err error, _ any, _ *ctxmap.Context) error {
	return errors.Join(errors.New("stop strategy cannot process errors"), err)
}

type resumeDrop struct {
	causePredicate func(error) bool
}

func (s resumeDrop) CanResume(err error, _ any) bool {
	return s.causePredicate == nil || s.causePredicate(err)
}

func (s resumeDrop) Process(err error, value any, sctx *ctxmap.Context) error {
	if s.causePredicate != nil && !s.causePredicate(err) {
		return err
	}
	if value != nil {
		hooks.OnNextDropped(value, sctx)
	}
	hooks.OnErrorDropped(err, sctx)

	return nil
}

type resume struct {
	causePredicate func(error) bool
	errorConsumer  func(err error, value any)
}

func (s resume) CanResume(err error, _ any) bool {
	return s.causePredicate == nil || s.causePredicate(err)
}

func (s resume) Process(err error, value any, _ *ctxmap.Context) (processErr error) {
	if s.causePredicate != nil && !s.causePredicate(err) {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			// The consumer's own failure suppresses and replaces the
			// original error for propagation.
			processErr = errors.Join(fmt.Errorf("error consumer panicked: %v", r), err)
		}
	}()
	s.errorConsumer(err, value)

	return nil
}
