package types

// MetricsCollector receives signal-flow measurements from the core and the
// bridge. Implementations must be safe for concurrent use.
//
// The default is a no-op collector; a Prometheus-backed implementation is
// provided by internal/metrics and installed via hooks.SetMetrics or the
// bridge configuration.
type MetricsCollector interface {
	// IncrementDroppedError counts an error that arrived after the terminal
	// state was reached and was routed to the dropped-signal sink.
	IncrementDroppedError()

	// IncrementDroppedValue counts a value routed to the dropped-signal sink.
	IncrementDroppedValue()

	// IncrementTerminalSignal counts a terminal transition by signal name
	// (cancel, onError, onComplete).
	IncrementTerminalSignal(signal string)

	// IncrementHookFailure counts a user hook failure by hook name.
	IncrementHookFailure(hook string)

	// ObserveFetchBatch records the size of one bridge fetch batch.
	ObserveFetchBatch(size int)

	// IncrementDelivered counts messages delivered to bridge subscribers.
	IncrementDelivered(count int)

	// IncrementDuplicateSkipped counts messages skipped by the bridge
	// deduplication window.
	IncrementDuplicateSkipped()
}
