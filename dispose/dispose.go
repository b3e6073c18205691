package dispose

import (
	"sync/atomic"

	"github.com/dquaner/my-flux/types"
)

// Func wraps f into a one-shot Disposable. The function runs at most once,
// no matter how many goroutines race on Dispose.
func Func(f func()) types.Disposable {
	return &funcDisposable{f: f}
}

type funcDisposable struct {
	disposed atomic.Bool
	f        func()
}

func (d *funcDisposable) Dispose() {
	if d.disposed.CompareAndSwap(false, true) {
		d.f()
	}
}

func (d *funcDisposable) IsDisposed() bool { return d.disposed.Load() }

// Disposed returns a Disposable that is already released.
func Disposed() types.Disposable { return disposedSingleton }

// Never returns a Disposable that holds no resource and never reports
// disposed.
func Never() types.Disposable { return neverSingleton }

var (
	disposedSingleton = stateless(true)
	neverSingleton    = stateless(false)
)

type stateless bool

func (s stateless) Dispose() {}

func (s stateless) IsDisposed() bool { return bool(s) }
