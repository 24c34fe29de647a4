package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is a custom logger type
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	logger *log.Logger
}

// NewLogger creates a logger appending to filePath
func NewLogger(filePath string) (*Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Logger{
		file:   file,
		logger: log.New(file, "", log.LstdFlags),
	}, nil
}

// NewWriterLogger creates a logger writing to w
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags)}
}

// Discard drops everything; used when no log sink is configured.
func Discard() *Logger { return NewWriterLogger(io.Discard) }

func (l *Logger) write(prefix, msg string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetPrefix(prefix)
	l.logger.Println(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string) { l.write("INFO: ", msg) }

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.write("WARN: ", msg) }

// Error logs an error message
func (l *Logger) Error(msg string) { l.write("ERROR: ", msg) }

func (l *Logger) Infof(format string, args ...any)  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.Error(fmt.Sprintf(format, args...)) }

// Close closes the log file, if any
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
