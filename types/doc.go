// Package types contains the shared contracts of the my-flux library.
//
// It defines the reactive-streams protocol surface (Publisher, Subscriber,
// Subscription), the Disposable resource abstraction, the Logger and
// MetricsCollector capabilities, and the sentinel errors used across
// components.
//
// Keeping these definitions in a leaf package lets internal packages depend
// on them without importing the root flux package, avoiding import cycles
// while the root package re-exports them for convenience.
package types
