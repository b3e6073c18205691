package flux

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/dquaner/my-flux/ctxmap"
	"github.com/dquaner/my-flux/hooks"
	"github.com/dquaner/my-flux/internal/logging"
	"github.com/dquaner/my-flux/strategy"
	"github.com/dquaner/my-flux/types"
)

// Hooks bundles the consumer-supplied callbacks of a Controller. Every field
// is optional.
//
// Hook failure handling: a hook that returns an error, or panics, never
// propagates to the producer's call site. Failures of OnSubscribe and OnNext
// are redirected into the onError channel of the same controller (OnNext
// failures first consult the configured failure strategy); failures of the
// terminal hooks are suppressed onto the original signal and routed to the
// dropped-error sink. Genuinely fatal conditions (out of memory, stack
// exhaustion) never reach recover and crash the process as usual.
type Hooks[T any] struct {
	// OnSubscribe runs once the subscription handle is installed. The
	// default requests unbounded demand; supply a hook to request manually.
	OnSubscribe func(s types.Subscription) error

	// OnNext processes one delivered value.
	OnNext func(value T) error

	// OnError processes the failure terminal signal. The default logs the
	// error as unhandled.
	OnError func(err error)

	// OnComplete processes the successful terminal signal.
	OnComplete func() error

	// OnCancel runs when this controller's Cancel wins the terminal race.
	OnCancel func() error

	// Finally runs after any terminal event (cancel, onError, onComplete),
	// in addition to and after the per-event hook, even if that hook failed.
	Finally func(signal SignalType)
}

// subscriptionCell boxes a handle so the lifecycle field can distinguish
// unset (nil), active, and cancelled (the sentinel cell).
type subscriptionCell struct {
	s types.Subscription
}

// cancelledCell is the permanent terminal state of every controller.
var cancelledCell = &subscriptionCell{s: cancelledSubscription{}}

// cancelledSubscription swallows demand and cancellation after termination.
type cancelledSubscription struct{}

func (cancelledSubscription) Request(int64) {}
func (cancelledSubscription) Cancel()       {}

// Controller wraps a raw demand-signaling handle with a CAS-guarded
// lifecycle, turning the three-party Publisher/Subscriber/Subscription
// protocol into a safe, reentrant, idempotent surface.
//
// A Controller is a Subscriber (the producer delivers signals through it), a
// Subscription (the consumer requests and cancels on it directly), and a
// Disposable (Dispose cancels). It owns exactly one handle for its lifetime:
// the first OnSubscribe wins, redundant handles are cancelled immediately,
// and all terminal operations contend on one atomic field, so across any
// interleaving of concurrent Cancel/OnError/OnComplete calls exactly one
// terminal hook set fires.
//
// All methods are safe for concurrent use from arbitrary goroutines.
type Controller[T any] struct {
	cell atomic.Pointer[subscriptionCell]

	hooks   Hooks[T]
	sctx    *ctxmap.Context
	logger  types.Logger
	failure strategy.Failure
}

// Compile-time assertions on the Controller's contracts.
var (
	_ types.Subscriber[any] = (*Controller[any])(nil)
	_ types.Subscription    = (*Controller[any])(nil)
	_ types.Disposable      = (*Controller[any])(nil)
)

// NewController creates a Controller around the given hooks.
//
// Parameters:
//   - h: Consumer-supplied callbacks (all optional)
//   - opts: Functional options (WithContext, WithLogger, WithFailureStrategy)
//
// Returns:
//   - *Controller[T]: A controller in the unset state, ready to be handed to
//     a Publisher via Subscribe
//
// Example:
//
//	ctrl := flux.NewController(flux.Hooks[int]{
//	    OnSubscribe: func(s flux.Subscription) error { s.Request(4); return nil },
//	    OnNext:      func(v int) error { return handle(v) },
//	    OnComplete:  func() error { close(done); return nil },
//	})
func NewController[T any](h Hooks[T], opts ...Option) *Controller[T] {
	o := &controllerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.sctx == nil {
		o.sctx = ctxmap.Empty()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	return &Controller[T]{
		hooks:   h,
		sctx:    o.sctx,
		logger:  o.logger,
		failure: o.failure,
	}
}

// Context returns the propagation store bound to this controller.
func (c *Controller[T]) Context() *ctxmap.Context { return c.sctx }

// Upstream returns the installed subscription handle, or nil before
// OnSubscribe and after termination.
func (c *Controller[T]) Upstream() types.Subscription {
	cell := c.cell.Load()
	if cell == nil || cell == cancelledCell {
		return nil
	}

	return cell.s
}

// OnSubscribe installs the handle iff no handle was installed before.
//
// A redundant handle (a misbehaving producer calling OnSubscribe twice, or a
// handle arriving after termination) is cancelled immediately and the state
// is left unchanged. On successful install the OnSubscribe hook runs; its
// failure is routed through OnError on this controller, not rethrown to the
// producer.
//
// Panics with types.ErrNilSubscription when s is nil.
func (c *Controller[T]) OnSubscribe(s types.Subscription) {
	if s == nil {
		panic(fmt.Errorf("flux: %w", types.ErrNilSubscription))
	}
	if !c.cell.CompareAndSwap(nil, &subscriptionCell{s: s}) {
		c.logger.Debug("redundant onSubscribe, cancelling incoming handle")
		s.Cancel()

		return
	}

	err := runHook("onSubscribe", func() error {
		if c.hooks.OnSubscribe != nil {
			return c.hooks.OnSubscribe(s)
		}
		// Default behavior: manual-request hooks absent, request everything.
		s.Request(types.Unbounded)

		return nil
	})
	if err != nil {
		c.OnError(fmt.Errorf("%w: onSubscribe: %w", types.ErrHookFailure, err))
	}
}

// Request forwards demand to the active handle.
//
// A non-positive amount is a no-op by this implementation's relaxed
// contract: it is logged at debug level, never surfaced as a protocol error.
func (c *Controller[T]) Request(n int64) {
	if n <= 0 {
		c.logger.Debug("non-positive request ignored", "n", n)
		return
	}
	if cell := c.cell.Load(); cell != nil {
		cell.s.Request(n)
	}
}

// RequestUnbounded requests the unbounded demand sentinel.
func (c *Controller[T]) RequestUnbounded() { c.Request(types.Unbounded) }

// Cancel atomically swaps the handle for the cancelled sentinel. Only the
// caller that performs the swap away from a non-sentinel value cancels the
// outgoing handle, runs the OnCancel hook (failures are converted into an
// error-hook invocation), and then always the Finally hook.
func (c *Controller[T]) Cancel() {
	old := c.cell.Swap(cancelledCell)
	if old == cancelledCell {
		return
	}
	hooks.Metrics().IncrementTerminalSignal(SignalCancel.String())
	if old != nil {
		old.s.Cancel()
	}

	if c.hooks.OnCancel != nil {
		if err := runHook("onCancel", c.hooks.OnCancel); err != nil {
			c.invokeErrorHook(fmt.Errorf("%w: onCancel: %w", types.ErrHookFailure, err))
		}
	}
	c.safeFinally(SignalCancel)
}

// Dispose cancels the subscription. Part of the Disposable contract.
func (c *Controller[T]) Dispose() { c.Cancel() }

// IsDisposed reports whether the controller reached the terminal state
// through Cancel, OnError, or OnComplete.
func (c *Controller[T]) IsDisposed() bool { return c.cell.Load() == cancelledCell }

// OnNext delivers one value to the OnNext hook.
//
// After the terminal state the value produces no hook invocation and is
// routed to the dropped-value sink instead. A hook failure consults the
// failure strategy: a resumable error is processed and the sequence
// continues, anything else terminates through OnError.
//
// Panics with types.ErrNilValue when value is nil.
func (c *Controller[T]) OnNext(value T) {
	if isNilValue(value) {
		panic(fmt.Errorf("flux: %w", types.ErrNilValue))
	}
	if c.IsDisposed() {
		hooks.OnNextDropped(value, c.sctx)
		return
	}
	if c.hooks.OnNext == nil {
		return
	}

	err := runHook("onNext", func() error { return c.hooks.OnNext(value) })
	if err == nil {
		return
	}

	if f := strategy.FromContext(c.sctx, c.failure); f != nil && f.CanResume(err, value) {
		if perr := f.Process(err, value, c.sctx); perr != nil {
			c.OnError(perr)
		}

		return
	}
	c.OnError(fmt.Errorf("%w: onNext: %w", types.ErrHookFailure, err))
}

// OnError delivers the failure terminal signal.
//
// The handle is atomically swapped for the cancelled sentinel; when the
// sentinel was already installed (a concurrent terminal event won), the
// incoming error is routed to the dropped-error sink and nothing else
// happens. Otherwise the OnError hook runs, then unconditionally the Finally
// hook; failures of either are suppressed onto the original error and routed
// to the dropped-error sink, never rethrown.
//
// Panics with types.ErrNilError when err is nil.
func (c *Controller[T]) OnError(err error) {
	if err == nil {
		panic(fmt.Errorf("flux: %w", types.ErrNilError))
	}
	old := c.cell.Swap(cancelledCell)
	if old == cancelledCell {
		// Already terminated concurrently.
		hooks.OnErrorDropped(err, c.sctx)
		return
	}

	hooks.Metrics().IncrementTerminalSignal(SignalOnError.String())
	c.invokeErrorHook(err)
	c.safeFinally(SignalOnError)
}

// OnComplete delivers the successful terminal signal. Losing the terminal
// race is silently dropped: completion carries no payload to report.
func (c *Controller[T]) OnComplete() {
	old := c.cell.Swap(cancelledCell)
	if old == cancelledCell {
		return
	}

	hooks.Metrics().IncrementTerminalSignal(SignalOnComplete.String())
	if c.hooks.OnComplete != nil {
		if err := runHook("onComplete", c.hooks.OnComplete); err != nil {
			// The terminal state is already set, so route through the error
			// hook directly rather than OnError, which would now drop it.
			c.invokeErrorHook(fmt.Errorf("%w: onComplete: %w", types.ErrHookFailure, err))
		}
	}
	c.safeFinally(SignalOnComplete)
}

// invokeErrorHook runs the OnError hook (or the unhandled-error default).
// Failures are suppressed onto the original error and dropped.
func (c *Controller[T]) invokeErrorHook(err error) {
	hookErr := runHook("onError", func() error {
		if c.hooks.OnError != nil {
			c.hooks.OnError(err)
			return nil
		}
		c.logger.Error("onError hook not implemented", "error", err)

		return nil
	})
	if hookErr != nil {
		hooks.OnErrorDropped(errors.Join(hookErr, err), c.sctx)
	}
}

// safeFinally runs the Finally hook; its failure has no channel left and
// goes to the dropped-error sink.
func (c *Controller[T]) safeFinally(signal SignalType) {
	if c.hooks.Finally == nil {
		return
	}
	err := runHook("finally", func() error {
		c.hooks.Finally(signal)
		return nil
	})
	if err != nil {
		hooks.OnErrorDropped(fmt.Errorf("%w: finally: %w", types.ErrHookFailure, err), c.sctx)
	}
}

// runHook executes a user hook, converting a non-fatal panic into an error
// so it never crosses the producer's call stack.
func runHook(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("hook panicked: %v", r)
			}
		}
		if err != nil {
			hooks.Metrics().IncrementHookFailure(name)
		}
	}()

	return fn()
}

// isNilValue reports whether a generic value is nil for the kinds that can
// be nil.
func isNilValue[T any](value T) bool {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
