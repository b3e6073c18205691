package types

// Disposable is a handle to a cancellable task or resource.
//
// Dispose is required to be idempotent. IsDisposed is best-effort:
// implementations that do not track disposition may always return false, but
// when an implementation returns true the resource is guaranteed disposed.
type Disposable interface {
	// Dispose cancels or releases the underlying task or resource.
	Dispose()

	// IsDisposed reports whether the resource is known to be disposed.
	IsDisposed() bool
}
