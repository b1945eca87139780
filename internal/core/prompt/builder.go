// Package prompt constructs the model prompts used for semantic comparison
// of technical drawing texts. Two variants exist: a detailed structured
// analysis prompt and a simplified percentage-only prompt used when the
// detailed variant's output cannot be parsed.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
)

// Variant identifies which prompt flavor a request used, so replies can be
// parsed against the matching schema.
type Variant string

const (
	// Detailed requests the full structured analysis.
	Detailed Variant = "detailed"
	// Simple requests only an aggregate percentage and a short list of
	// differences.
	Simple Variant = "simple"
)

// Character budgets bound the underlying model call.
const (
	DetailedTextBudget = 4000
	SimpleTextBudget   = 2000
)

// System role instructions per variant.
const (
	DetailedSystem = "You are an expert structural engineer and technical drawing analyst."
	SimpleSystem   = "You are a technical drawing analyst."
)

// Builder renders comparison prompts over the fixed category schema.
type Builder struct {
	categories []string
}

// NewBuilder creates a prompt builder over the eight fixed drawing
// comparison categories.
func NewBuilder() *Builder {
	names := make([]string, 0, len(domain.Categories))
	for name := range domain.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Builder{categories: names}
}

// Detailed renders the structured-analysis prompt. It asks for a similarity
// score, a confidence score, per-category scores, reasoning, and the four
// classified difference lists, all as a single JSON object.
func (b *Builder) Detailed(textA, textB string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert structural engineer analyzing two technical drawings. ")
	sb.WriteString("Compare the extracted text from these drawings and provide a comprehensive analysis.\n\n")
	sb.WriteString("DRAWING 1 TEXT:\n")
	sb.WriteString(Truncate(textA, DetailedTextBudget))
	sb.WriteString("\n\nDRAWING 2 TEXT:\n")
	sb.WriteString(Truncate(textB, DetailedTextBudget))
	sb.WriteString("\n\nProvide a detailed comparison in the following JSON format:\n\n")

	sb.WriteString("{\n")
	sb.WriteString("    \"similarity_score\": <float between 0.0 and 1.0>,\n")
	sb.WriteString("    \"confidence\": <float between 0.0 and 1.0 indicating how confident you are>,\n")
	sb.WriteString("    \"reasoning\": \"<detailed explanation of your analysis>\",\n")
	sb.WriteString("    \"semantic_differences\": [\"<meaningful difference 1>\", \"<meaningful difference 2>\"],\n")
	sb.WriteString("    \"technical_analysis\": {\n")
	sb.WriteString("        \"major_differences\": [\"<list of significant technical differences>\"],\n")
	sb.WriteString("        \"minor_differences\": [\"<list of minor differences>\"],\n")
	sb.WriteString("        \"common_elements\": [\"<list of shared elements>\"],\n")
	sb.WriteString("        \"critical_discrepancies\": [\"<safety or code-critical differences>\"]\n")
	sb.WriteString("    },\n")
	sb.WriteString("    \"categories\": {\n")
	for i, name := range b.categories {
		sep := ","
		if i == len(b.categories)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "        %q: <similarity score 0.0-1.0>%s\n", name, sep)
	}
	sb.WriteString("    }\n")
	sb.WriteString("}\n\n")

	sb.WriteString("ANALYSIS GUIDELINES:\n")
	sb.WriteString("1. Focus on SEMANTIC meaning, not just text similarity\n")
	sb.WriteString("2. Consider technical context and engineering significance\n")
	sb.WriteString("3. Weigh structural elements and safety-critical items more heavily\n")
	sb.WriteString("4. Account for different ways of expressing the same concept\n")
	sb.WriteString("5. Consider drawing standards and conventions\n")
	sb.WriteString("6. Identify functionally equivalent but differently expressed elements\n")
	sb.WriteString("7. Flag critical discrepancies that could affect safety or compliance\n\n")
	sb.WriteString("Provide only the JSON response, no additional text.\n")

	return sb.String()
}

// Simplified renders the lightweight fallback prompt asking only for an
// aggregate percentage, a short list of differences, and a one-sentence
// explanation.
func (b *Builder) Simplified(textA, textB string) string {
	var sb strings.Builder

	sb.WriteString("Compare these two technical drawing texts and rate their similarity from 0% to 100%.\n\n")
	fmt.Fprintf(&sb, "Drawing 1: %s\n", Truncate(textA, SimpleTextBudget))
	fmt.Fprintf(&sb, "Drawing 2: %s\n\n", Truncate(textB, SimpleTextBudget))
	sb.WriteString("Consider:\n")
	sb.WriteString("- Structural elements (beams, columns, etc.)\n")
	sb.WriteString("- Dimensions and measurements\n")
	sb.WriteString("- Materials and specifications\n")
	sb.WriteString("- Overall design intent\n\n")
	sb.WriteString("Respond with only a JSON object:\n")
	sb.WriteString("{\n")
	sb.WriteString("    \"similarity_percentage\": <number 0-100>,\n")
	sb.WriteString("    \"main_differences\": [\"<difference 1>\", \"<difference 2>\"],\n")
	sb.WriteString("    \"explanation\": \"<brief explanation>\"\n")
	sb.WriteString("}\n")

	return sb.String()
}

// Truncate bounds text to at most limit runes.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}
