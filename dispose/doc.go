// Package dispose provides composable containers for cancellable resources.
//
// The containers operate on types.Disposable, the idempotent release handle
// used throughout the subscription protocol for cleanup:
//
//   - Func adapts a plain func() into a one-shot Disposable.
//   - Composite owns a growable set of Disposables and releases them all in
//     one go; once disposed it rejects (and immediately disposes) anything
//     handed to it, so no resource is ever leaked or double-released.
//   - Swap owns a single slot whose occupant can be exchanged atomically,
//     with or without disposing the outgoing value.
//
// All containers are safe for concurrent use from arbitrary goroutines with
// no external synchronization.
package dispose
