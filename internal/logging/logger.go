package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"loxo-bridge/internal/logging/types"
)

// loggerCore is the adapter set and level shared by a logger and every
// logger derived from it, guarded by one mutex
type loggerCore struct {
	mu       sync.RWMutex
	adapters map[string]types.LogAdapter
	level    LogLevel
}

// MultiLogger fans every entry out to its registered adapters. Derived
// loggers from WithField share the core with their parent, so adapters and
// level changes are visible to the whole family.
type MultiLogger struct {
	core   *loggerCore
	fields map[string]interface{}
}

// NewMultiLogger creates a logger with no adapters at info level
func NewMultiLogger() *MultiLogger {
	return &MultiLogger{
		core: &loggerCore{
			adapters: make(map[string]types.LogAdapter),
			level:    InfoLevel,
		},
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, fields)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, fields)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, fields)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, fields)
}

// WithField returns a derived logger that stamps the field on every entry
func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &MultiLogger{
		core:   l.core,
		fields: fields,
	}
}

// SetLevel sets the minimum level an entry needs to be written
func (l *MultiLogger) SetLevel(level LogLevel) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.level = level
}

// AddAdapter registers an adapter. Adapter names must be unique.
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.core.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}

	l.core.adapters[name] = adapter
	return nil
}

// Close closes every adapter, reporting the first failure
func (l *MultiLogger) Close() error {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()

	var firstErr error
	for name, adapter := range l.core.adapters {
		if err := adapter.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close adapter %s: %w", name, err)
		}
	}
	return firstErr
}

func (l *MultiLogger) log(level LogLevel, message string, extra []map[string]interface{}) {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()

	if level < l.core.level {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    mergeFields(l.fields, extra),
	}

	for name, adapter := range l.core.adapters {
		if err := adapter.Write(entry); err != nil {
			// Adapter failures go to stderr; logging about a broken
			// logger through itself would loop
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

func mergeFields(base map[string]interface{}, extra []map[string]interface{}) map[string]interface{} {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(base))
	for k, v := range base {
		fields[k] = v
	}
	for _, m := range extra {
		for k, v := range m {
			fields[k] = v
		}
	}
	return fields
}

// ParseLogLevel maps a config string to a level, defaulting to info
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
