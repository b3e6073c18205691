package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNopMetricsDoesNotPanic(t *testing.T) {
	m := NewNop()

	m.IncrementDroppedError()
	m.IncrementDroppedValue()
	m.IncrementTerminalSignal("cancel")
	m.IncrementHookFailure("onNext")
	m.ObserveFetchBatch(16)
	m.IncrementDelivered(3)
	m.IncrementDuplicateSkipped()
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "testflux")

	m.IncrementDroppedError()
	m.IncrementDroppedError()
	m.IncrementDroppedValue()
	m.IncrementTerminalSignal("onComplete")
	m.IncrementHookFailure("finally")
	m.ObserveFetchBatch(8)
	m.IncrementDelivered(5)
	m.IncrementDuplicateSkipped()

	expected := `
		# HELP testflux_core_dropped_signals_total Signals routed to the dropped-signal sink by kind (error, value).
		# TYPE testflux_core_dropped_signals_total counter
		testflux_core_dropped_signals_total{kind="error"} 2
		testflux_core_dropped_signals_total{kind="value"} 1
	`
	require.NoError(t, testutil.CollectAndCompare(m.droppedSignals, strings.NewReader(expected)))

	require.InDelta(t, 5, testutil.ToFloat64(m.deliveredMessages), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.duplicatesSkipped), 0)
}

func TestPrometheusCollectorDefaults(t *testing.T) {
	m := NewPrometheus(prometheus.NewRegistry(), "")
	require.Equal(t, "myflux", m.namespace)
}
