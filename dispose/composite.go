package dispose

import (
	"sync"
	"sync/atomic"

	"github.com/dquaner/my-flux/types"
)

// Composite is a Disposable container that owns other Disposables and
// releases them all in one go.
//
// Add transfers ownership of the resource to the container; Remove detaches a
// member without disposing it, handing responsibility back to the caller.
// Once disposed the container cannot be reused: Add rejects the candidate and
// disposes it immediately, so a resource handed to a disposed Composite is
// never leaked un-disposed, nor disposed twice.
type Composite struct {
	disposed atomic.Bool

	mu      sync.Mutex
	members []types.Disposable
}

// Compile-time assertion that Composite implements Disposable.
var _ types.Disposable = (*Composite)(nil)

// NewComposite creates a Composite pre-populated with the given members. The
// container owns them from this point on.
func NewComposite(members ...types.Disposable) *Composite {
	c := &Composite{}
	if len(members) > 0 {
		c.members = append(c.members, members...)
	}

	return c
}

// Add hands d to the container.
//
// Returns:
//   - bool: true when the container took ownership, false when it is already
//     disposed, in which case d has been disposed before returning
func (c *Composite) Add(d types.Disposable) bool {
	if d == nil {
		return false
	}

	if !c.disposed.Load() {
		c.mu.Lock()
		// Re-check under the lock: a concurrent Dispose may have drained the
		// set between the flag read and the append.
		if !c.disposed.Load() {
			c.members = append(c.members, d)
			c.mu.Unlock()

			return true
		}
		c.mu.Unlock()
	}

	d.Dispose()

	return false
}

// AddAll hands every element of ds to the container. If the container is
// disposed midway, the remaining elements are disposed instead of stored.
//
// Returns:
//   - bool: true when all elements were taken, false when the container was
//     disposed before the last element
func (c *Composite) AddAll(ds ...types.Disposable) bool {
	abort := c.IsDisposed()
	for _, d := range ds {
		if d == nil {
			continue
		}
		if abort {
			d.Dispose()
			continue
		}
		abort = !c.Add(d)
	}

	return !abort
}

// Remove detaches d from the container without disposing it, transferring
// disposal responsibility back to the caller. It has no effect once the
// container is disposed.
//
// Returns:
//   - bool: true when d was a member and has been detached
func (c *Composite) Remove(d types.Disposable) bool {
	if d == nil || c.disposed.Load() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, member := range c.members {
		if member == d {
			c.members = append(c.members[:i], c.members[i+1:]...)
			return true
		}
	}

	return false
}

// Size returns the current number of owned members, or 0 once disposed.
func (c *Composite) Size() int {
	if c.disposed.Load() {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.members)
}

// Dispose atomically marks the container terminal, drains the held set, and
// disposes every member exactly once. Only the caller that wins the terminal
// flip performs the drain; all others return immediately.
func (c *Composite) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}

	c.mu.Lock()
	drained := c.members
	c.members = nil
	c.mu.Unlock()

	for _, d := range drained {
		d.Dispose()
	}
}

// IsDisposed reports whether the container has been disposed.
func (c *Composite) IsDisposed() bool { return c.disposed.Load() }
