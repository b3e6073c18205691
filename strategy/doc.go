// Package strategy provides failure-recovery policies for errors raised
// while a subscription delivers signals.
//
// A Failure decides whether an error thrown during onNext processing can be
// recovered from, letting the sequence continue, and performs the
// side-effecting recovery (dropping the offending value and error to the
// dedicated sinks, or delegating them to a user-supplied consumer).
//
// Strategies are stateless and safe to share across subscriptions. A
// predicate gate can be attached so only matching errors are treated as
// resumable; non-matching errors are always propagated, never swallowed.
package strategy
