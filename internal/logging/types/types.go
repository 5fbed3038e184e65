package types

import "time"

// LogLevel orders log entries by severity
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

// LogEntry is one structured log record on its way to the adapters
type LogEntry struct {
	Level     LogLevel               `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogAdapter writes finished entries to one destination
type LogAdapter interface {
	Write(entry *LogEntry) error
	Close() error
	Name() string
}

// Logger is the structured logging surface the service codes against
type Logger interface {
	Debug(message string, fields ...map[string]interface{})
	Info(message string, fields ...map[string]interface{})
	Warn(message string, fields ...map[string]interface{})
	Error(message string, fields ...map[string]interface{})

	// WithField returns a derived logger carrying the field on every entry
	WithField(key string, value interface{}) Logger

	SetLevel(level LogLevel)
	AddAdapter(adapter LogAdapter) error
	Close() error
}

// AdapterConfig selects and configures one adapter from the logging config
type AdapterConfig struct {
	Name    string                 `yaml:"name"`
	Type    string                 `yaml:"type"`
	Enabled bool                   `yaml:"enabled"`
	Options map[string]interface{} `yaml:"options"`
}
