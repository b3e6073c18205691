package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dquaner/my-flux/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Registration is deferred until the first measurement so that constructing a
// collector never panics on a registry collision in code paths that end up
// not using it.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	droppedSignals    *prometheus.CounterVec
	terminalSignals   *prometheus.CounterVec
	hookFailures      *prometheus.CounterVec
	fetchBatchSize    prometheus.Histogram
	deliveredMessages prometheus.Counter
	duplicatesSkipped prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "myflux" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "myflux"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.droppedSignals = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "core",
			Name:      "dropped_signals_total",
			Help:      "Signals routed to the dropped-signal sink by kind (error, value).",
		}, []string{"kind"})

		p.terminalSignals = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "core",
			Name:      "terminal_signals_total",
			Help:      "Terminal transitions by winning signal (cancel, onError, onComplete).",
		}, []string{"signal"})

		p.hookFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "core",
			Name:      "hook_failures_total",
			Help:      "User hook failures by hook name.",
		}, []string{"hook"})

		p.fetchBatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "bridge",
			Name:      "fetch_batch_size",
			Help:      "Messages returned per JetStream fetch batch.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		})

		p.deliveredMessages = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "bridge",
			Name:      "delivered_messages_total",
			Help:      "Messages delivered to bridge subscribers.",
		})

		p.duplicatesSkipped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "bridge",
			Name:      "duplicates_skipped_total",
			Help:      "Messages skipped by the deduplication window.",
		})

		p.reg.MustRegister(p.droppedSignals)
		p.reg.MustRegister(p.terminalSignals)
		p.reg.MustRegister(p.hookFailures)
		p.reg.MustRegister(p.fetchBatchSize)
		p.reg.MustRegister(p.deliveredMessages)
		p.reg.MustRegister(p.duplicatesSkipped)
	})
}

// IncrementDroppedError counts an error routed to the dropped-signal sink.
func (p *PrometheusCollector) IncrementDroppedError() {
	p.ensureRegistered()
	p.droppedSignals.WithLabelValues("error").Inc()
}

// IncrementDroppedValue counts a value routed to the dropped-signal sink.
func (p *PrometheusCollector) IncrementDroppedValue() {
	p.ensureRegistered()
	p.droppedSignals.WithLabelValues("value").Inc()
}

// IncrementTerminalSignal counts a terminal transition by signal name.
func (p *PrometheusCollector) IncrementTerminalSignal(signal string) {
	p.ensureRegistered()
	p.terminalSignals.WithLabelValues(signal).Inc()
}

// IncrementHookFailure counts a user hook failure by hook name.
func (p *PrometheusCollector) IncrementHookFailure(hook string) {
	p.ensureRegistered()
	p.hookFailures.WithLabelValues(hook).Inc()
}

// ObserveFetchBatch records the size of one bridge fetch batch.
func (p *PrometheusCollector) ObserveFetchBatch(size int) {
	p.ensureRegistered()
	p.fetchBatchSize.Observe(float64(size))
}

// IncrementDelivered counts messages delivered to bridge subscribers.
func (p *PrometheusCollector) IncrementDelivered(count int) {
	p.ensureRegistered()
	p.deliveredMessages.Add(float64(count))
}

// IncrementDuplicateSkipped counts messages skipped by deduplication.
func (p *PrometheusCollector) IncrementDuplicateSkipped() {
	p.ensureRegistered()
	p.duplicatesSkipped.Inc()
}
