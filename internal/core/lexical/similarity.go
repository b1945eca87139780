package lexical

import (
	"context"
	"fmt"
	"strings"

	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// Calculator implements the deterministic lexical comparison baseline:
// a character-level alignment ratio and a line-level unified diff.
// It never fails and is the guaranteed fallback for every other strategy.
type Calculator struct {
	logger     ports.Logger
	normalizer ports.Normalizer
}

// NewCalculator creates a new lexical calculator. The normalizer is
// optional; when nil, texts are compared exactly as extracted.
func NewCalculator(logger ports.Logger, normalizer ports.Normalizer) *Calculator {
	return &Calculator{logger: logger, normalizer: normalizer}
}

// Ratio computes the character-level alignment similarity between the two
// texts. 1.0 means character-identical, 0.0 means no common subsequence
// structure. Two empty texts are identical; one empty text scores 0.0.
func (c *Calculator) Ratio(ctx context.Context, textA, textB string) float64 {
	textA, textB = c.normalize(textA), c.normalize(textB)

	m := newMatcher(runes(textA), runes(textB))
	ratio := m.ratio()

	c.logger.Debug("Computed lexical ratio",
		"ratio", ratio,
		"len_a", len(textA),
		"len_b", len(textB),
	)
	return ratio
}

// Diff computes a line-oriented unified diff between the two texts, with
// three lines of context, labeled "File 1" and "File 2". Identical texts
// produce an empty (non-nil) slice.
func (c *Calculator) Diff(ctx context.Context, textA, textB string) []string {
	textA, textB = c.normalize(textA), c.normalize(textB)

	linesA := splitLines(textA)
	linesB := splitLines(textB)
	m := newMatcher(linesA, linesB)

	diff := []string{}
	started := false
	for _, group := range m.groupedOpCodes(3) {
		if !started {
			diff = append(diff, "--- File 1", "+++ File 2")
			started = true
		}
		first, last := group[0], group[len(group)-1]
		diff = append(diff, fmt.Sprintf("@@ -%s +%s @@",
			formatRange(first.i1, last.i2),
			formatRange(first.j1, last.j2),
		))
		for _, code := range group {
			switch code.tag {
			case "equal":
				for _, line := range linesA[code.i1:code.i2] {
					diff = append(diff, " "+line)
				}
			case "replace", "delete":
				for _, line := range linesA[code.i1:code.i2] {
					diff = append(diff, "-"+line)
				}
			}
			switch code.tag {
			case "replace", "insert":
				for _, line := range linesB[code.j1:code.j2] {
					diff = append(diff, "+"+line)
				}
			}
		}
	}

	c.logger.Debug("Computed unified diff", "lines", len(diff))
	return diff
}

func (c *Calculator) normalize(text string) string {
	if c.normalizer == nil {
		return text
	}
	return c.normalizer.Normalize(text)
}

// formatRange renders one side of a unified diff hunk header.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func runes(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
