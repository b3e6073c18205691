package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dquaner/my-flux/ctxmap"
	"github.com/dquaner/my-flux/internal/metrics"
)

func resetAll(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		ResetOnErrorDropped()
		ResetOnNextDropped()
		SetLogger(nil)
		SetMetrics(nil)
	})
}

func TestOnErrorDroppedGlobalHandler(t *testing.T) {
	resetAll(t)

	var got []error
	OnErrorDroppedEach("test", func(err error) { got = append(got, err) })

	boom := errors.New("boom")
	OnErrorDropped(boom, ctxmap.Empty())

	require.Len(t, got, 1)
	require.ErrorIs(t, got[0], boom)
}

func TestOnErrorDroppedLocalOverride(t *testing.T) {
	resetAll(t)

	var globalHits, localHits int
	OnErrorDroppedEach("test", func(error) { globalHits++ })

	sctx := ctxmap.Of(KeyOnErrorDroppedLocal, func(error) { localHits++ })
	OnErrorDropped(errors.New("boom"), sctx)

	require.Equal(t, 1, localHits, "local handler wins")
	require.Zero(t, globalHits, "global handlers are bypassed by a local one")
}

func TestOnNextDropped(t *testing.T) {
	resetAll(t)

	var got []any
	OnNextDroppedEach("test", func(v any) { got = append(got, v) })

	OnNextDropped(42, nil)
	require.Equal(t, []any{42}, got)
}

func TestDroppedSignalsAreCounted(t *testing.T) {
	resetAll(t)

	m := &countingMetrics{}
	SetMetrics(m)
	OnErrorDroppedEach("test", func(error) {})

	OnErrorDropped(errors.New("boom"), nil)
	OnNextDropped("v", nil)
	OnNextDropped("w", nil)

	require.Equal(t, 1, m.droppedErrors)
	require.Equal(t, 2, m.droppedValues)
}

func TestHandlerPanicIsContained(t *testing.T) {
	resetAll(t)

	OnErrorDroppedEach("test", func(error) { panic("sink gone bad") })
	require.NotPanics(t, func() {
		OnErrorDropped(errors.New("boom"), nil)
	})
}

func TestHandlerReplacementAndRemoval(t *testing.T) {
	resetAll(t)

	var first, second int
	OnNextDroppedEach("slot", func(any) { first++ })
	OnNextDroppedEach("slot", func(any) { second++ })

	OnNextDropped(1, nil)
	require.Zero(t, first, "replaced handler no longer fires")
	require.Equal(t, 1, second)

	OnNextDroppedEach("slot", nil)
	OnNextDropped(2, nil)
	require.Equal(t, 1, second, "removed handler no longer fires")
}

func TestDefaultsAreNop(t *testing.T) {
	resetAll(t)

	require.NotNil(t, Logger())
	require.NotNil(t, Metrics())
	require.IsType(t, metrics.NewNop(), Metrics())

	// No handlers, no logger configured: must still be safe.
	require.NotPanics(t, func() {
		OnErrorDropped(errors.New("boom"), nil)
		OnNextDropped("value", nil)
	})
}

type countingMetrics struct {
	metrics.NopMetrics

	droppedErrors int
	droppedValues int
}

func (m *countingMetrics) IncrementDroppedError() { m.droppedErrors++ }
func (m *countingMetrics) IncrementDroppedValue() { m.droppedValues++ }
