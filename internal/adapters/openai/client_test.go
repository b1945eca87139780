package openai

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Close() error                                   { return nil }

func TestNewClient(t *testing.T) {
	t.Run("Requires an API key", func(t *testing.T) {
		_, err := NewClient(Config{}, noopLogger{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key")
	})

	t.Run("Applies defaults", func(t *testing.T) {
		c, err := NewClient(Config{APIKey: "sk-test"}, noopLogger{})

		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
		assert.Equal(t, 60*time.Second, c.config.ReadTimeout)
	})

	t.Run("Keeps overrides", func(t *testing.T) {
		c, err := NewClient(Config{
			APIKey:      "sk-test",
			BaseURL:     "http://localhost:8081/v1",
			ReadTimeout: 5 * time.Second,
		}, noopLogger{})

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8081/v1", c.config.BaseURL)
		assert.Equal(t, 5*time.Second, c.config.ReadTimeout)
	})
}

func TestTransportError(t *testing.T) {
	t.Run("With status code", func(t *testing.T) {
		err := &TransportError{Model: "gpt-4o", StatusCode: 429, Err: errors.New("rate limited")}

		assert.Contains(t, err.Error(), "gpt-4o")
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limited")
	})

	t.Run("Without status code", func(t *testing.T) {
		inner := errors.New("connection refused")
		err := &TransportError{Model: "gpt-4o", Err: inner}

		assert.NotContains(t, err.Error(), "status")
		assert.ErrorIs(t, err, inner)
	})
}
