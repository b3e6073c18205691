package types

import "math"

// Unbounded is the demand sentinel that producers may treat as an infinite
// request. Accumulated demand that reaches this value never decreases.
const Unbounded int64 = math.MaxInt64

// Subscription is the demand-signaling handle a Publisher hands to a
// Subscriber through OnSubscribe.
//
// Implementations must be safe for concurrent use: Request and Cancel may be
// invoked from arbitrary goroutines with no external synchronization.
type Subscription interface {
	// Request adds n to the outstanding demand, authorizing the producer to
	// deliver up to n more values.
	//
	// This library deliberately relaxes the strict Reactive Streams rule for
	// non-positive amounts: n <= 0 is a no-op (logged at debug level at most),
	// never an error signal. Downstream code may rely on this behavior.
	Request(n int64)

	// Cancel asks the producer to stop delivering values.
	//
	// Cancel is idempotent. It does not retract demand already satisfied, and
	// values in flight to satisfy prior demand may still arrive after Cancel
	// returns.
	Cancel()
}

// Subscriber receives the signals of one subscription lifecycle.
//
// Signal grammar: OnSubscribe is called exactly once, first. OnNext is called
// zero or more times with non-nil values. At most one of OnError/OnComplete is
// ever called, and no signal follows it.
type Subscriber[T any] interface {
	// OnSubscribe hands the demand-signaling handle to the subscriber.
	// No value is delivered until the subscriber requests demand on it.
	OnSubscribe(s Subscription)

	// OnNext delivers one value. Values are never nil.
	OnNext(value T)

	// OnError terminates the sequence with a failure. Terminal.
	OnError(err error)

	// OnComplete terminates the sequence successfully. Terminal.
	OnComplete()
}

// Publisher is a factory of subscription lifecycles.
//
// Subscribe may be invoked repeatedly; each call starts an independent
// lifecycle with its own Subscription handle.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T])
}
