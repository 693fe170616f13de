// internal/utils/logger.go
package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger defines the interface for logging throughout the application.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
}

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// SimpleLogger is a leveled text logger writing one line per message.
type SimpleLogger struct {
	level  LogLevel
	out    io.Writer
	fields map[string]interface{}
	mu     sync.Mutex
}

// NewLogger creates a logger at Info level writing to stderr.
func NewLogger() Logger {
	return NewLoggerWithLevel(InfoLevel)
}

// NewLoggerWithLevel creates a logger with the specified minimum level.
func NewLoggerWithLevel(level LogLevel) Logger {
	return &SimpleLogger{
		level:  level,
		out:    os.Stderr,
		fields: make(map[string]interface{}),
	}
}

func (l *SimpleLogger) Debugf(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

func (l *SimpleLogger) Infof(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

func (l *SimpleLogger) Warnf(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

func (l *SimpleLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// WithField returns a child logger carrying an extra key/value on every line.
func (l *SimpleLogger) WithField(key string, value interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(map[string]interface{}, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &SimpleLogger{level: l.level, out: l.out, fields: fields}
}

func (l *SimpleLogger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] [%s] %s",
		time.Now().Format("2006-01-02 15:04:05"),
		levelNames[level],
		fmt.Sprintf(format, args...))

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, l.fields[k]))
		}
		line += " " + strings.Join(parts, " ")
	}

	fmt.Fprintln(l.out, line)
}

// NopLogger discards everything. Useful as a test default.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{})          {}
func (NopLogger) Infof(string, ...interface{})           {}
func (NopLogger) Warnf(string, ...interface{})           {}
func (NopLogger) Errorf(string, ...interface{})          {}
func (n NopLogger) WithField(string, interface{}) Logger { return n }
