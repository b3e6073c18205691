package types

import "errors"

// Sentinel errors for the my-flux library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). All components should use these sentinel errors for known
// error conditions and wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).
//
// Context errors are used as panic values by the ctxmap package (mirroring
// how the standard library's context.WithValue panics on misuse); recover
// the value and check it with errors.Is.

// Context errors - raised by the ctxmap propagation store.
var (
	// ErrKeyNotFound is returned by Get when the key is absent.
	// Callers preferring a no-error path use GetOr or Lookup.
	ErrKeyNotFound = errors.New("context key not found")

	// ErrNilKeyOrValue is the panic value when a nil key or nil value is
	// handed to any context constructor or mutation.
	ErrNilKeyOrValue = errors.New("context key and value must be non-nil")

	// ErrDuplicateKey is the panic value when a fixed-arity context
	// constructor is given colliding keys.
	ErrDuplicateKey = errors.New("duplicate context key")
)

// Protocol errors - raised by the subscription protocol surface.
var (
	// ErrNilValue is the panic value when OnNext is called with a nil value.
	ErrNilValue = errors.New("onNext called with nil value")

	// ErrNilError is the panic value when OnError is called with a nil error.
	ErrNilError = errors.New("onError called with nil error")

	// ErrNilSubscription is the panic value when OnSubscribe is called with a
	// nil subscription handle.
	ErrNilSubscription = errors.New("onSubscribe called with nil subscription")

	// ErrHookFailure wraps a failure raised by a user-supplied hook. Hook
	// failures are redirected into the onError channel of the same
	// subscription rather than thrown across the producer's call stack.
	ErrHookFailure = errors.New("subscriber hook failed")
)

// Bridge errors - returned by the natsbridge publisher.
var (
	// ErrInvalidConfig is returned when the bridge configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionRequired is returned when the NATS connection is nil.
	ErrConnectionRequired = errors.New("NATS connection is required")

	// ErrPublisherClosed is returned when Subscribe is called on a closed
	// bridge publisher.
	ErrPublisherClosed = errors.New("publisher closed")
)
