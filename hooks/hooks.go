package hooks

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/dquaner/my-flux/ctxmap"
	"github.com/dquaner/my-flux/internal/logging"
	"github.com/dquaner/my-flux/internal/metrics"
	"github.com/dquaner/my-flux/types"
)

// Context keys for subscription-local dropped-signal handlers. Bind a
// func(error) (or func(any) for values) under these keys in the
// subscription's context to override the global sinks for that sequence.
const (
	KeyOnErrorDroppedLocal = "myflux.onErrorDropped.local"
	KeyOnNextDroppedLocal  = "myflux.onNextDropped.local"
)

var (
	errorHandlers = xsync.NewMap[string, func(error)]()
	valueHandlers = xsync.NewMap[string, func(any)]()

	loggerRef  atomic.Pointer[loggerBox]
	metricsRef atomic.Pointer[metricsBox]
)

type loggerBox struct{ l types.Logger }

type metricsBox struct{ m types.MetricsCollector }

// SetLogger swaps the package-wide logger used by the fallback sinks.
// Passing nil restores the no-op logger.
func SetLogger(l types.Logger) {
	if l == nil {
		loggerRef.Store(nil)
		return
	}
	loggerRef.Store(&loggerBox{l: l})
}

// Logger returns the current package-wide logger.
func Logger() types.Logger {
	if box := loggerRef.Load(); box != nil {
		return box.l
	}

	return logging.NewNop()
}

// SetMetrics swaps the package-wide metrics collector. Passing nil restores
// the no-op collector.
func SetMetrics(m types.MetricsCollector) {
	if m == nil {
		metricsRef.Store(nil)
		return
	}
	metricsRef.Store(&metricsBox{m: m})
}

// Metrics returns the current package-wide metrics collector.
func Metrics() types.MetricsCollector {
	if box := metricsRef.Load(); box != nil {
		return box.m
	}

	return metrics.NewNop()
}

// OnErrorDroppedEach registers a named global handler for dropped errors.
// Registering under an existing name replaces the previous handler.
func OnErrorDroppedEach(name string, fn func(error)) {
	if fn == nil {
		errorHandlers.Delete(name)
		return
	}
	errorHandlers.Store(name, fn)
}

// OnNextDroppedEach registers a named global handler for dropped values.
// Registering under an existing name replaces the previous handler.
func OnNextDroppedEach(name string, fn func(any)) {
	if fn == nil {
		valueHandlers.Delete(name)
		return
	}
	valueHandlers.Store(name, fn)
}

// ResetOnErrorDropped removes every global dropped-error handler.
func ResetOnErrorDropped() { errorHandlers.Clear() }

// ResetOnNextDropped removes every global dropped-value handler.
func ResetOnNextDropped() { valueHandlers.Clear() }

// OnErrorDropped routes an error that arrived after the terminal state to the
// dropped-error sink. Never panics and never rethrows; handler panics are
// captured and logged.
func OnErrorDropped(err error, sctx *ctxmap.Context) {
	Metrics().IncrementDroppedError()

	if sctx != nil {
		if local, ok := sctx.Lookup(KeyOnErrorDroppedLocal); ok {
			if fn, ok := local.(func(error)); ok {
				safely(func() { fn(err) })
				return
			}
		}
	}

	delivered := false
	errorHandlers.Range(func(_ string, fn func(error)) bool {
		delivered = true
		safely(func() { fn(err) })

		return true
	})
	if !delivered {
		Logger().Error("onErrorDropped", "error", err)
	}
}

// OnNextDropped routes a value that arrived after the terminal state to the
// dropped-value sink. Never panics and never rethrows.
func OnNextDropped(value any, sctx *ctxmap.Context) {
	Metrics().IncrementDroppedValue()

	if sctx != nil {
		if local, ok := sctx.Lookup(KeyOnNextDroppedLocal); ok {
			if fn, ok := local.(func(any)); ok {
				safely(func() { fn(value) })
				return
			}
		}
	}

	delivered := false
	valueHandlers.Range(func(_ string, fn func(any)) bool {
		delivered = true
		safely(func() { fn(value) })

		return true
	})
	if !delivered {
		Logger().Debug("onNextDropped", "value", value)
	}
}

// safely runs fn, reporting a recovered panic through the package logger so
// a misbehaving sink cannot take down a protocol path.
func safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("dropped-signal handler panicked", "panic", r)
		}
	}()
	fn()
}
