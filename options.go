package flux

import (
	"github.com/dquaner/my-flux/ctxmap"
	"github.com/dquaner/my-flux/strategy"
	"github.com/dquaner/my-flux/types"
)

// Option configures a Controller with optional dependencies.
type Option func(*controllerOptions)

// controllerOptions holds optional Controller configuration.
type controllerOptions struct {
	sctx    *ctxmap.Context
	logger  types.Logger
	failure strategy.Failure
}

// WithContext binds a propagation context to the controller. The context
// travels with the subscription and is visible to hooks, drop sinks, and the
// failure strategy.
//
// Parameters:
//   - sctx: Immutable propagation store (nil means ctxmap.Empty())
//
// Returns:
//   - Option: Functional option for NewController
//
// Example:
//
//	sctx := ctxmap.Of("traceId", "abc-123")
//	ctrl := flux.NewController(hooks, flux.WithContext(sctx))
func WithContext(sctx *ctxmap.Context) Option {
	return func(o *controllerOptions) {
		o.sctx = sctx
	}
}

// WithLogger sets a logger for protocol diagnostics (redundant
// subscriptions, ignored non-positive requests, unhandled errors).
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewController
func WithLogger(logger types.Logger) Option {
	return func(o *controllerOptions) {
		o.logger = logger
	}
}

// WithFailureStrategy sets the recovery policy consulted when the OnNext
// hook fails. Without one, every OnNext hook failure terminates the sequence
// through OnError.
//
// A subscription-local strategy bound in the propagation context under
// strategy.ContextKey takes precedence over this option.
//
// Parameters:
//   - f: Failure strategy (see the strategy package constructors)
//
// Returns:
//   - Option: Functional option for NewController
//
// Example:
//
//	ctrl := flux.NewController(hooks, flux.WithFailureStrategy(strategy.ResumeDrop()))
func WithFailureStrategy(f strategy.Failure) Option {
	return func(o *controllerOptions) {
		o.failure = f
	}
}
