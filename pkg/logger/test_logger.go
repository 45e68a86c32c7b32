package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that captures messages
// instead of writing them anywhere. Derived loggers returned by WithField
// and friends share the root logger's capture buffer.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	zerolog  *zerolog.Logger
	fields   map[string]interface{}
	parent   *TestLogger
}

var _ Logger = (*TestLogger)(nil)

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{
		messages: make([]LogMessage, 0),
		zerolog:  &nop,
		fields:   make(map[string]interface{}),
	}
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// WithField returns a derived test logger sharing the same capture buffer
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a derived test logger sharing the same capture buffer
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	derived := &TestLogger{
		zerolog: l.zerolog,
		fields:  make(map[string]interface{}, len(l.fields)+len(fields)),
		parent:  l.root(),
	}
	for k, v := range l.fields {
		derived.fields[k] = v
	}
	for k, v := range fields {
		derived.fields[k] = v
	}
	return derived
}

// WithError adds an error field
func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// GetZerolog returns a no-op zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}

// root follows the parent chain to the logger owning the capture buffer
func (l *TestLogger) root() *TestLogger {
	if l.parent != nil {
		return l.parent
	}
	return l
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()
	root.messages = append(root.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
	})
}

// Messages returns a copy of all captured log messages
func (l *TestLogger) Messages() []LogMessage {
	root := l.root()
	root.mu.Lock()
	defer root.mu.Unlock()

	out := make([]LogMessage, len(root.messages))
	copy(out, root.messages)
	return out
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.Messages() {
		if msg.Message == text {
			return true
		}
	}
	return false
}
