package flux

import "github.com/dquaner/my-flux/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core contracts.
// It uses type aliases to re-export definitions from the `types` subpackage,
// which contains the actual declarations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `flux`
// package, while still providing a convenient `flux.Subscription`,
// `flux.Logger`, etc. for users.
type (
	Subscription     = types.Subscription
	Disposable       = types.Disposable
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
)

// Re-export the generic protocol interfaces.
type (
	Subscriber[T any] = types.Subscriber[T]
	Publisher[T any]  = types.Publisher[T]
)

// Unbounded is the demand sentinel producers may treat as infinite.
const Unbounded = types.Unbounded
