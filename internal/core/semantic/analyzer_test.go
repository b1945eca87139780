package semantic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

type noopLogger struct{}

func (noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Close() error                                   { return nil }

// scriptedInvoker replays a fixed sequence of replies, recording every
// request it receives. Calls past the end of the script reuse its last step.
type scriptedInvoker struct {
	mu       sync.Mutex
	script   []func(req ports.ModelRequest) (string, error)
	requests []ports.ModelRequest
}

func (s *scriptedInvoker) Invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	return s.script[idx](req)
}

func (s *scriptedInvoker) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func reply(raw string) func(ports.ModelRequest) (string, error) {
	return func(ports.ModelRequest) (string, error) { return raw, nil }
}

func fail(msg string) func(ports.ModelRequest) (string, error) {
	return func(ports.ModelRequest) (string, error) { return "", errors.New(msg) }
}

func newTestAnalyzer(t *testing.T, invoker ports.ModelInvoker) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), invoker, noopLogger{})
	require.NoError(t, err)
	return a
}

const detailedOK = `{
	"similarity_score": 0.9,
	"confidence": 0.95,
	"reasoning": "Same structure",
	"semantic_differences": ["note changed"],
	"categories": {"dimensions": 0.8}
}`

const simpleOK = `{
	"similarity_percentage": 70,
	"main_differences": ["beam size"],
	"explanation": "Roughly similar"
}`

func TestAnalyzeDetailedTier(t *testing.T) {
	invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){reply(detailedOK)}}
	a := newTestAnalyzer(t, invoker)

	result, err := a.Analyze(context.Background(), "gpt-4o", "text a", "text b", 0.55)

	require.NoError(t, err)
	assert.Equal(t, 1, invoker.calls())
	assert.Equal(t, domain.TierDetailed, result.Tier)
	assert.Equal(t, 0.9, result.SimilarityScore)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, 0.55, result.RawSimilarity)
	assert.False(t, result.Timestamp.IsZero())

	req := invoker.requests[0]
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.Contains(t, req.Prompt, "text a")
	assert.Contains(t, req.Prompt, "text b")
}

func TestAnalyzeSimplifiedTier(t *testing.T) {
	t.Run("After transport failure", func(t *testing.T) {
		invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){
			fail("api unavailable"),
			reply(simpleOK),
		}}
		a := newTestAnalyzer(t, invoker)

		result, err := a.Analyze(context.Background(), "gpt-4o", "a", "b", 0.4)

		require.NoError(t, err)
		assert.Equal(t, 2, invoker.calls())
		assert.Equal(t, domain.TierSimple, result.Tier)
		assert.Equal(t, 0.7, result.SimilarityScore)
		assert.Equal(t, SimpleConfidence, result.Confidence)
		assert.Equal(t, []string{"beam size"}, result.SemanticDifferences)
		assert.Equal(t, SimpleMaxTokens, invoker.requests[1].MaxTokens)
	})

	t.Run("After unparseable detailed reply", func(t *testing.T) {
		invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){
			reply("The drawings look pretty similar to me."),
			reply(simpleOK),
		}}
		a := newTestAnalyzer(t, invoker)

		result, err := a.Analyze(context.Background(), "gpt-4o", "a", "b", 0.4)

		require.NoError(t, err)
		assert.Equal(t, 2, invoker.calls())
		assert.Equal(t, domain.TierSimple, result.Tier)
	})

	t.Run("Uses the fallback model", func(t *testing.T) {
		invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){
			fail("down"),
			reply(simpleOK),
		}}
		a := newTestAnalyzer(t, invoker)

		_, err := a.Analyze(context.Background(), "gpt-4o", "a", "b", 0.4)

		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", invoker.requests[0].Model)
		assert.Equal(t, "gpt-3.5-turbo", invoker.requests[1].Model)
	})

	t.Run("Keeps the model when it already is the fallback", func(t *testing.T) {
		invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){
			fail("down"),
			reply(simpleOK),
		}}
		a := newTestAnalyzer(t, invoker)

		_, err := a.Analyze(context.Background(), "gpt-3.5-turbo", "a", "b", 0.4)

		require.NoError(t, err)
		assert.Equal(t, "gpt-3.5-turbo", invoker.requests[1].Model)
	})
}

func TestAnalyzeLexicalFallbackTier(t *testing.T) {
	invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){
		fail("primary down"),
		fail("fallback down too"),
	}}
	a := newTestAnalyzer(t, invoker)

	result, err := a.Analyze(context.Background(), "gpt-4o", "a", "b", 0.62)

	require.NoError(t, err, "the cascade must not fail once entered")
	assert.Equal(t, 2, invoker.calls())
	assert.Equal(t, domain.TierFallback, result.Tier)
	assert.Equal(t, 0.62, result.SimilarityScore)
	assert.Equal(t, 0.62, result.RawSimilarity)
	assert.Equal(t, FallbackConfidence, result.Confidence)
	assert.Equal(t, []string{FallbackMessage}, result.SemanticDifferences)
	assert.Equal(t, FallbackReasoning, result.Reasoning)
	assert.Contains(t, result.TechnicalAnalysis["error"], "fallback down too")
}

func TestAnalyzeDeadContext(t *testing.T) {
	invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){reply(detailedOK)}}
	a := newTestAnalyzer(t, invoker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, "gpt-4o", "a", "b", 0.5)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, invoker.calls(), "no model call once the context is dead")
}

func TestAnalyzeEmptyModelUsesConfigured(t *testing.T) {
	invoker := &scriptedInvoker{script: []func(ports.ModelRequest) (string, error){reply(detailedOK)}}
	a := newTestAnalyzer(t, invoker)

	_, err := a.Analyze(context.Background(), "", "a", "b", 0.5)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", invoker.requests[0].Model)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Defaults are valid", func(c *Config) {}, ""},
		{"Empty model", func(c *Config) { c.Model = "" }, "model"},
		{"Negative temperature", func(c *Config) { c.Temperature = -0.1 }, "temperature"},
		{"Temperature above 2", func(c *Config) { c.Temperature = 2.5 }, "temperature"},
		{"Zero max tokens", func(c *Config) { c.MaxTokens = 0 }, "maxTokens"},
		{"Zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNewAnalyzerRequiresInvoker(t *testing.T) {
	_, err := NewAnalyzer(DefaultConfig(), nil, noopLogger{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoker")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "gpt-3.5-turbo", cfg.FallbackModel)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}
