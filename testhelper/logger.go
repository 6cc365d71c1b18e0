package testhelper

import (
	"sync"

	"github.com/orbitads/orbit/backend/internal/logger"
)

// LogEntry represents a captured log entry with its message and fields
type LogEntry struct {
	Message string
	Fields  map[string]interface{}
}

// TestLogger captures log output for assertions in tests
type TestLogger struct {
	mu            sync.RWMutex
	infoMessages  []LogEntry
	errorMessages []LogEntry
	warnMessages  []LogEntry
	debugMessages []LogEntry
	fields        map[string]interface{}
}

// NewTestLogger creates a new test logger instance
func NewTestLogger() *TestLogger {
	return &TestLogger{fields: make(map[string]interface{})}
}

func (t *TestLogger) LogInfo(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.infoMessages = append(t.infoMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

func (t *TestLogger) LogError(err error, msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := map[string]interface{}{}
	if err != nil {
		fields["error"] = err.Error()
	}
	t.errorMessages = append(t.errorMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
	return err
}

func (t *TestLogger) LogErrorf(err error, format string, args ...interface{}) error {
	return t.LogError(err, format)
}

func (t *TestLogger) LogFatal(err error, context string) {
	t.LogError(err, context)
	panic(context)
}

func (t *TestLogger) LogDebug(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debugMessages = append(t.debugMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

func (t *TestLogger) LogWarn(msg string, fields map[string]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warnMessages = append(t.warnMessages, LogEntry{Message: msg, Fields: t.mergeFields(fields)})
}

func (t *TestLogger) WithFields(fields map[string]interface{}) logger.Logger {
	t.mu.Lock()
	defer t.mu.Unlock()
	merged := t.mergeFields(fields)
	return &TestLogger{fields: merged}
}

func (t *TestLogger) WithRequestID(requestID string) logger.Logger {
	return t.WithFields(map[string]interface{}{"request_id": requestID})
}

// GetInfoMessages returns captured info entries
func (t *TestLogger) GetInfoMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.infoMessages...)
}

// GetErrorMessages returns captured error entries
func (t *TestLogger) GetErrorMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.errorMessages...)
}

// GetWarnMessages returns captured warn entries
func (t *TestLogger) GetWarnMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.warnMessages...)
}

// GetDebugMessages returns captured debug entries
func (t *TestLogger) GetDebugMessages() []LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]LogEntry(nil), t.debugMessages...)
}

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
