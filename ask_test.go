package semanticsimilarity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// recordingInvoker returns a fixed answer and keeps the last request.
type recordingInvoker struct {
	mu     sync.Mutex
	answer string
	err    error
	last   *ports.ModelRequest
}

func (r *recordingInvoker) Invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &req
	return r.answer, r.err
}

func TestAskQuestion(t *testing.T) {
	comparison := &ComparisonResult{
		SimilarityScore: 0.75,
		Differences:     []string{"beam size changed", "note added"},
		TextA:           "STEEL BEAM W14X30",
		TextB:           "STEEL BEAM W16X40",
	}

	t.Run("No invoker configured", func(t *testing.T) {
		c, err := New()
		require.NoError(t, err)

		_, err = c.AskQuestion(context.Background(), comparison, "What changed?")

		assert.ErrorIs(t, err, ErrAIUnavailable)
	})

	t.Run("Builds a grounded prompt", func(t *testing.T) {
		invoker := &recordingInvoker{answer: "The beam was upsized."}
		c, err := New(WithInvoker(invoker))
		require.NoError(t, err)

		answer, err := c.AskQuestion(context.Background(), comparison, "What changed?")

		require.NoError(t, err)
		assert.Equal(t, "The beam was upsized.", answer)

		require.NotNil(t, invoker.last)
		assert.Equal(t, "gpt-4o", invoker.last.Model)
		assert.Contains(t, invoker.last.Prompt, "Similarity Score: 75.00%")
		assert.Contains(t, invoker.last.Prompt, "beam size changed; note added")
		assert.Contains(t, invoker.last.Prompt, "File 1 Text: STEEL BEAM W14X30")
		assert.Contains(t, invoker.last.Prompt, "File 2 Text: STEEL BEAM W16X40")
		assert.Contains(t, invoker.last.Prompt, "Question: What changed?")
	})

	t.Run("Nil result rejected", func(t *testing.T) {
		c, err := New(WithInvoker(&recordingInvoker{}))
		require.NoError(t, err)

		_, err = c.AskQuestion(context.Background(), nil, "What changed?")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "result")
	})

	t.Run("Blank question rejected", func(t *testing.T) {
		invoker := &recordingInvoker{}
		c, err := New(WithInvoker(invoker))
		require.NoError(t, err)

		_, err = c.AskQuestion(context.Background(), comparison, "   ")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "question")
		assert.Nil(t, invoker.last)
	})

	t.Run("Transport errors surface", func(t *testing.T) {
		inner := errors.New("connection refused")
		c, err := New(WithInvoker(&recordingInvoker{err: inner}))
		require.NoError(t, err)

		_, err = c.AskQuestion(context.Background(), comparison, "What changed?")

		assert.ErrorIs(t, err, inner)
	})
}
