package logging

import "github.com/dquaner/my-flux/types"

// NopLogger implements types.Logger discarding everything.
//
// Used as the default when no logger is configured, eliminating nil checks
// throughout the codebase.
type NopLogger struct{}

// Compile-time assertion that NopLogger implements Logger.
var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a new no-op logger.
func NewNop() *NopLogger { return &NopLogger{} }

// Debug is a no-op.
func (l *NopLogger) Debug(msg string, keysAndValues ...any) {}

// Info is a no-op.
func (l *NopLogger) Info(msg string, keysAndValues ...any) {}

// Warn is a no-op.
func (l *NopLogger) Warn(msg string, keysAndValues ...any) {}

// Error is a no-op.
func (l *NopLogger) Error(msg string, keysAndValues ...any) {}

// Fatal is a no-op that does not exit; the no-op logger never terminates the
// process.
func (l *NopLogger) Fatal(msg string, keysAndValues ...any) {}
