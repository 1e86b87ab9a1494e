package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// -----------------------------------------------------------------------------

// Logger provides leveled logging to stdout and, optionally, a log file.
type Logger struct {
	name   string
	logger *log.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a Logger writing to stdout only.
func NewLogger(name string) *Logger {
	return &Logger{
		name:   name,
		logger: log.New(os.Stdout, "", log.LstdFlags),
	}
}

// -----------------------------------------------------------------------------

// NewFileLogger creates a Logger that tees to stdout and the given file,
// creating parent directories as needed. Falls back to stdout only if the
// file cannot be opened.
func NewFileLogger(name, path string) *Logger {
	l := NewLogger(name)
	if path == "" {
		return l
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			l.Warning("Cannot create log directory %s: %v", dir, err)
			return l
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.Warning("Cannot open log file %s: %v", path, err)
		return l
	}

	l.logger = log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags)
	return l
}

// -----------------------------------------------------------------------------

// Named returns a Logger with a different component name sharing the same
// output destinations.
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, logger: l.logger}
}

// -----------------------------------------------------------------------------

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] DEBUG: %s", l.name, msg)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] INFO: %s", l.name, msg)
}

// -----------------------------------------------------------------------------

// Warning logs warning messages
func (l *Logger) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] WARNING: %s", l.name, msg)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] ERROR: %s", l.name, msg)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] CRITICAL: %s", l.name, msg)
	os.Exit(1)
}
