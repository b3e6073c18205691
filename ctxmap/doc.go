// Package ctxmap provides the immutable key/value store propagated alongside
// a subscription for cross-cutting data such as tracing ids or security
// tokens.
//
// A Context is thread-safe and immutable: mutative operations like Put return
// a new Context instance, so concurrent readers of one instance never observe
// partial state and no synchronization is required.
//
// The store is optimized for low-cardinality usage. Up to five entries are
// held in flat fields with no backing map; past five entries the Context
// switches to a copy-on-write map representation. Deleting back down to five
// entries demotes the representation again. Callers never observe the
// representation, only the entry count.
//
// Misuse (nil keys or values, duplicate keys in the fixed-arity constructor)
// panics, mirroring context.WithValue in the standard library. The panic
// values wrap the sentinel errors in the types package, so a recover site can
// classify them with errors.Is. Keys must be comparable, as with any Go map.
package ctxmap
