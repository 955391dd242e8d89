package log

import (
	"fmt"
	"sync"
	"time"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel, nil
	case "info", "INFO", "":
		return InfoLevel, nil
	case "warn", "WARN", "warning":
		return WarnLevel, nil
	case "error", "ERROR":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("log: unknown level %q", s)
}

// Fields is a map of field names to values.
type Fields map[string]interface{}

// Entry represents a single log entry.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
}

// Logger is the logging interface passed to pl-flow components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// With returns a child logger carrying the extra fields on every entry.
	With(fields ...Field) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter renders an Entry to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formatted []byte) error
	Close() error
}

// LoggerOption configures a logger at construction.
type LoggerOption func(*BaseLogger)

// BaseLogger implements the Logger interface.
type BaseLogger struct {
	mu        sync.Mutex
	level     Level
	fields    Fields
	formatter Formatter
	outputs   []Output
}

// NewLogger creates a new logger with the given options.
func NewLogger(options ...LoggerOption) Logger {
	logger := &BaseLogger{
		level:     InfoLevel,
		fields:    Fields{},
		formatter: &TextFormatter{},
	}
	for _, option := range options {
		option(logger)
	}
	if len(logger.outputs) == 0 {
		logger.outputs = []Output{NewConsoleOutput()}
	}
	return logger
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) {
		l.level = level
	}
}

// WithFormatter sets the log formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) {
		l.formatter = formatter
	}
}

// WithOutput adds an output to the logger.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) {
		l.outputs = append(l.outputs, output)
	}
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
		return
	}
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	entry := &Entry{
		Level:     level,
		Message:   msg,
		Fields:    merged,
		Timestamp: time.Now(),
	}
	formatted, err := l.formatter.Format(entry)
	if err != nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, out := range l.outputs {
		_ = out.Write(entry, formatted)
	}
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *BaseLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, fmt.Sprintf(format, args...), nil)
}
func (l *BaseLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// With returns a child logger carrying the extra fields on every entry.
func (l *BaseLogger) With(fields ...Field) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &BaseLogger{
		level:     l.GetLevel(),
		fields:    merged,
		formatter: l.formatter,
		outputs:   l.outputs,
	}
}

// SetLevel sets the minimum log level.
func (l *BaseLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *BaseLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}
