// ask.go
package semanticsimilarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/prompt"
	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

const askSystem = "You are an expert in analyzing text differences and providing insights."

// AskQuestion answers a free-form follow-up question about a prior
// comparison result, grounded in the result's scores, differences and
// texts. Unlike Compare, this is an explicit AI operation: transport
// errors are surfaced to the caller rather than degraded.
func (c *Comparator) AskQuestion(ctx context.Context, result *ComparisonResult, question string) (string, error) {
	if c.invoker == nil {
		return "", ErrAIUnavailable
	}
	if result == nil {
		return "", fmt.Errorf("comparison result must not be nil")
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	var sb strings.Builder
	sb.WriteString("The following is a comparison of two drawings:\n")
	fmt.Fprintf(&sb, "Similarity Score: %.2f%%\n", result.SimilarityScore*100)
	fmt.Fprintf(&sb, "Differences: %s\n", strings.Join(result.Differences, "; "))
	fmt.Fprintf(&sb, "File 1 Text: %s\n", prompt.Truncate(result.TextA, prompt.SimpleTextBudget))
	fmt.Fprintf(&sb, "File 2 Text: %s\n", prompt.Truncate(result.TextB, prompt.SimpleTextBudget))
	fmt.Fprintf(&sb, "\nQuestion: %s\n", question)

	answer, err := c.invoker.Invoke(ctx, ports.ModelRequest{
		Model:       c.config.Model,
		System:      askSystem,
		Prompt:      sb.String(),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("answering question: %w", err)
	}

	c.logger.Debug("Question answered", "question", question)
	return answer, nil
}
