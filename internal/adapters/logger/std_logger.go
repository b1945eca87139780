// Package logger adapts the l structured logger to the ports.Logger
// interface used throughout the library.
package logger

import (
	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// StdLogger wraps an l.Logger behind ports.Logger.
type StdLogger struct {
	logger l.Logger
}

// FromExisting wraps an already configured l.Logger.
func FromExisting(logger l.Logger) ports.Logger {
	return &StdLogger{logger: logger}
}

func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	s.logger.Debug(msg, keysAndValues...)
}

func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the underlying logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}
