// format.go
package semanticsimilarity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// FormatResult renders a comparison result for terminal display: scores as
// percentages, the AI reasoning when present, the top differences, and a
// per-category breakdown.
func FormatResult(result *ComparisonResult) string {
	if result == nil {
		return ""
	}

	heading := color.New(color.FgCyan, color.Bold)
	score := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)

	var out []string
	out = append(out, heading.Sprintf("Comparison method: %s", result.Method))

	if result.AIAnalysis != nil {
		ai := result.AIAnalysis
		out = append(out, score.Sprintf("AI Semantic Similarity: %.1f%%", ai.SimilarityScore*100))
		out = append(out, fmt.Sprintf("Raw Text Similarity: %.1f%%", ai.RawSimilarity*100))
		out = append(out, fmt.Sprintf("AI Confidence: %.1f%%", ai.Confidence*100))
		if ai.Reasoning != "" {
			out = append(out, "", "AI Reasoning:", ai.Reasoning)
		}

		if len(ai.SemanticDifferences) > 0 {
			out = append(out, "", warn.Sprint("Key Differences:"))
			diffs := ai.SemanticDifferences
			if len(diffs) > 5 {
				diffs = diffs[:5]
			}
			for _, diff := range diffs {
				out = append(out, "  - "+diff)
			}
		}

		if len(ai.Categories) > 0 {
			out = append(out, "", "Category Analysis:")
			names := make([]string, 0, len(ai.Categories))
			for name := range ai.Categories {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				title := strings.ReplaceAll(name, "_", " ")
				out = append(out, fmt.Sprintf("  %s: %.1f%%", title, ai.Categories[name]*100))
			}
		}
		return strings.Join(out, "\n")
	}

	out = append(out, score.Sprintf("Text Similarity: %.1f%%", result.SimilarityScore*100))
	if len(result.Differences) > 0 {
		out = append(out, "", warn.Sprint("Differences:"))
		diffs := result.Differences
		if len(diffs) > 10 {
			diffs = diffs[:10]
		}
		for _, diff := range diffs {
			out = append(out, "  "+diff)
		}
	}
	return strings.Join(out, "\n")
}
