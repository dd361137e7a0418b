package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLogger appends audit events as newline-delimited JSON to a rotating
// file
type FileLogger struct {
	mu      sync.Mutex
	out     io.WriteCloser
	encoder *json.Encoder
}

// FileLoggerConfig configures the file logger
type FileLoggerConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultFileLoggerConfig returns default configuration for path
func DefaultFileLoggerConfig(path string) FileLoggerConfig {
	return FileLoggerConfig{
		Path:       path,
		MaxSizeMB:  100,
		MaxBackups: 10,
		MaxAgeDays: 90,
	}
}

// NewFileLogger creates a new file-based audit logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("audit log path is required")
	}
	return newFileLogger(&lumberjack.Logger{
		Filename:   config.Path,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAgeDays,
		Compress:   true,
	}), nil
}

func newFileLogger(out io.WriteCloser) *FileLogger {
	return &FileLogger{out: out, encoder: json.NewEncoder(out)}
}

// Log writes the event as one JSON line
func (l *FileLogger) Log(ctx context.Context, event *AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to write audit event: %w", err)
	}
	return nil
}

// Close closes the underlying file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
