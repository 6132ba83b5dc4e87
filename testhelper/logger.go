package testhelper

import (
	"fmt"
	"sync"

	"github.com/consensuslabs/pavilion-network/datamigrate/internal/logger"
)

// LogEntry represents a log entry with its message and fields
type LogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// logStore is shared between a TestLogger and every logger derived from it
// with WithFields, so assertions on the root see all entries.
type logStore struct {
	mu            sync.RWMutex
	infoMessages  []LogEntry
	errorMessages []LogEntry
	warnMessages  []LogEntry
	debugMessages []LogEntry
	debugEnabled  bool
}

// TestLogger provides a logger implementation for testing with debug capabilities
type TestLogger struct {
	store  *logStore
	fields map[string]interface{}
}

var _ logger.Logger = (*TestLogger)(nil)

// NewTestLogger creates a new test logger instance
func NewTestLogger(debugEnabled bool) *TestLogger {
	return &TestLogger{
		store:  &logStore{debugEnabled: debugEnabled},
		fields: make(map[string]interface{}),
	}
}

// LogInfo implements logger.Logger
func (t *TestLogger) LogInfo(msg string, fields map[string]interface{}) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.infoMessages = append(t.store.infoMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

// LogError implements logger.Logger
func (t *TestLogger) LogError(err error, msg string) error {
	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.errorMessages = append(t.store.errorMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
	return err
}

// LogErrorf implements logger.Logger
func (t *TestLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return t.LogError(err, fmt.Sprintf(format, args...))
}

// LogFatal implements logger.Logger. It records the entry and does not exit.
func (t *TestLogger) LogFatal(err error, context string) {
	fields := map[string]interface{}{
		"context": context,
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.errorMessages = append(t.store.errorMessages, LogEntry{Message: "FATAL: " + context, Fields: t.mergeFields(fields)})
}

// LogDebug implements logger.Logger
func (t *TestLogger) LogDebug(message string, fields map[string]interface{}) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if !t.store.debugEnabled {
		return
	}
	t.store.debugMessages = append(t.store.debugMessages, LogEntry{Message: message, Fields: t.mergeFields(fields)})
}

// LogWarn implements logger.Logger
func (t *TestLogger) LogWarn(message string, fields map[string]interface{}) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.warnMessages = append(t.store.warnMessages, LogEntry{Message: message, Fields: t.mergeFields(fields)})
}

// WithFields implements logger.Logger
func (t *TestLogger) WithFields(fields map[string]interface{}) logger.Logger {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return &TestLogger{
		store:  t.store,
		fields: t.mergeFields(fields),
	}
}

// GetInfoMessages returns all info level messages
func (t *TestLogger) GetInfoMessages() []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]LogEntry(nil), t.store.infoMessages...)
}

// GetErrorMessages returns all error level messages
func (t *TestLogger) GetErrorMessages() []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]LogEntry(nil), t.store.errorMessages...)
}

// GetWarnMessages returns all warning level messages
func (t *TestLogger) GetWarnMessages() []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]LogEntry(nil), t.store.warnMessages...)
}

// GetDebugMessages returns all debug level messages
func (t *TestLogger) GetDebugMessages() []LogEntry {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return append([]LogEntry(nil), t.store.debugMessages...)
}

// ClearMessages clears all logged messages
func (t *TestLogger) ClearMessages() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.infoMessages = nil
	t.store.errorMessages = nil
	t.store.warnMessages = nil
	t.store.debugMessages = nil
}

// EnableDebug enables debug logging
func (t *TestLogger) EnableDebug() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.debugEnabled = true
}

// DisableDebug disables debug logging
func (t *TestLogger) DisableDebug() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.debugEnabled = false
}

// mergeFields merges the logger's base fields with the provided fields
func (t *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(t.fields)+len(fields))
	for k, v := range t.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}
