package dispose

import (
	"sync/atomic"

	"github.com/dquaner/my-flux/types"
)

// slot boxes the occupant so the atomic pointer can distinguish "empty"
// (nil occupant) from "swap disposed" (the sentinel slot).
type slot struct {
	d types.Disposable // nil for an empty slot
}

// terminated marks a disposed Swap. Installed permanently; never unset.
var terminated = &slot{}

// Swap is a Disposable container holding at most one Disposable, which can be
// exchanged atomically. Update disposes the outgoing occupant, Replace keeps
// it alive for the caller. Disposing the Swap disposes the occupant, and any
// value handed to a disposed Swap is disposed in place of being stored.
type Swap struct {
	current atomic.Pointer[slot]
}

// Compile-time assertion that Swap implements Disposable.
var _ types.Disposable = (*Swap)(nil)

// NewSwap creates an empty Swap.
func NewSwap() *Swap {
	s := &Swap{}
	s.current.Store(&slot{})

	return s
}

// Get returns the current occupant, or nil when the slot is empty or the
// Swap is disposed.
func (s *Swap) Get() types.Disposable {
	cur := s.current.Load()
	if cur == terminated {
		return nil
	}

	return cur.d
}

// Update atomically sets next as the occupant and disposes the previous one,
// if any. If the Swap has been disposed, next is disposed instead.
//
// Returns:
//   - bool: true when next was stored, false when the Swap is disposed
func (s *Swap) Update(next types.Disposable) bool {
	return s.exchange(next, true)
}

// Replace atomically sets next as the occupant without disposing the
// previous one. If the Swap has been disposed, next is disposed instead.
//
// Returns:
//   - bool: true when next was stored, false when the Swap is disposed
func (s *Swap) Replace(next types.Disposable) bool {
	return s.exchange(next, false)
}

func (s *Swap) exchange(next types.Disposable, disposeOld bool) bool {
	incoming := &slot{d: next}
	for {
		cur := s.current.Load()
		if cur == terminated {
			if next != nil {
				next.Dispose()
			}

			return false
		}
		if s.current.CompareAndSwap(cur, incoming) {
			if disposeOld && cur.d != nil {
				cur.d.Dispose()
			}

			return true
		}
	}
}

// Dispose releases the current occupant, if any, and marks the Swap terminal.
// Idempotent; only the caller that installs the terminal state disposes the
// occupant.
func (s *Swap) Dispose() {
	cur := s.current.Swap(terminated)
	if cur != terminated && cur.d != nil {
		cur.d.Dispose()
	}
}

// IsDisposed reports whether the Swap has been disposed.
func (s *Swap) IsDisposed() bool { return s.current.Load() == terminated }
