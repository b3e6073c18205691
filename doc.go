// Package flux provides a Go library for demand-driven streaming: a
// subscription lifecycle controller with strict terminal-signal guarantees,
// an immutable context-propagation store, composable disposal containers,
// and pluggable failure-recovery strategies.
//
// Flux models the three-party streaming handshake: a Publisher hands a
// Subscriber a Subscription, the subscriber signals demand through
// Request, and the publisher delivers at most that many OnNext signals
// before a single terminal OnError or OnComplete. The Controller type
// wraps consumer callbacks with a lock-free lifecycle that makes the whole
// surface safe under arbitrary concurrency.
//
// # Quick Start
//
// Basic usage with manual demand:
//
//	import "github.com/dquaner/my-flux"
//
//	ctrl := flux.NewController(flux.Hooks[string]{
//	    OnSubscribe: func(s flux.Subscription) error {
//	        s.Request(10)
//	        return nil
//	    },
//	    OnNext: func(v string) error {
//	        return process(v)
//	    },
//	    OnError:    func(err error) { log.Println("stream failed:", err) },
//	    OnComplete: func() error { close(done); return nil },
//	})
//
//	publisher.Subscribe(ctrl)
//	defer ctrl.Dispose()
//
// # Key Guarantees
//
//   - Exactly-once termination: across any interleaving of concurrent
//     Cancel, OnError, and OnComplete calls, exactly one terminal hook set
//     fires, and the Finally hook runs at most once
//   - Hook isolation: a hook that fails or panics never propagates into
//     the producer's call stack; failures are rerouted through the error
//     channel or the dropped-signal sinks
//   - Relaxed demand contract: Request with a non-positive amount is a
//     logged no-op rather than a protocol violation
//   - Late signals are never lost silently: values and errors arriving
//     after termination are routed to the hooks package drop sinks
//
// # Subpackages
//
//   - ctxmap: immutable key/value store carried alongside a subscription
//   - dispose: one-shot, composite, and swappable disposal containers
//   - strategy: failure-recovery strategies for OnNext hook errors
//   - hooks: process-wide dropped-signal sinks, logger, and metrics wiring
//   - natsbridge: a JetStream pull-consumer backed Publisher where
//     subscriber demand drives the broker's pull protocol
//   - testing: embedded NATS server and logging helpers for tests
//
// # Failure Strategies
//
// An OnNext hook failure normally terminates the sequence. A resume
// strategy keeps it alive instead:
//
//	ctrl := flux.NewController(flux.Hooks[Event]{
//	    OnNext: decode,
//	}, flux.WithFailureStrategy(strategy.ResumeDrop()))
//
// A strategy can also travel with the subscription context, overriding the
// configured one for that sequence only:
//
//	sctx := ctxmap.Of(strategy.ContextKey, strategy.ResumeDrop())
//	ctrl := flux.NewController(hooks, flux.WithContext(sctx))
package flux
