// Package metrics provides types.MetricsCollector implementations for the
// flux core and the natsbridge publisher.
package metrics

import "github.com/dquaner/my-flux/types"

// NopMetrics implements types.MetricsCollector with no-op methods.
//
// This is the default collector when none is configured, eliminating nil
// checks on every measurement site.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics { return &NopMetrics{} }

// IncrementDroppedError is a no-op.
func (n *NopMetrics) IncrementDroppedError() {}

// IncrementDroppedValue is a no-op.
func (n *NopMetrics) IncrementDroppedValue() {}

// IncrementTerminalSignal is a no-op.
func (n *NopMetrics) IncrementTerminalSignal(signal string) {}

// IncrementHookFailure is a no-op.
func (n *NopMetrics) IncrementHookFailure(hook string) {}

// ObserveFetchBatch is a no-op.
func (n *NopMetrics) ObserveFetchBatch(size int) {}

// IncrementDelivered is a no-op.
func (n *NopMetrics) IncrementDelivered(count int) {}

// IncrementDuplicateSkipped is a no-op.
func (n *NopMetrics) IncrementDuplicateSkipped() {}
