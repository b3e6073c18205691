// Package hooks provides the process-wide dropped-signal sinks of the flux
// core, plus the swappable logging and metrics backends they report through.
//
// A dropped signal is a value or error that arrives after its subscription
// already reached the terminal state: there is no channel left to deliver it
// on, so it is routed here instead of being thrown or silently discarded.
//
// Resolution order for a dropped signal:
//
//  1. a local handler carried in the subscription's ctxmap.Context under
//     KeyOnErrorDroppedLocal / KeyOnNextDroppedLocal;
//  2. the named global handlers registered with OnErrorDroppedEach /
//     OnNextDroppedEach;
//  3. the package logger (errors at error level, values at debug level).
//
// The metrics collector counts every dropped signal regardless of which
// handler consumed it. All functions are safe for concurrent use; the global
// handler registries are lock-free on the read path.
package hooks
