package domain

import (
	"math"
	"time"
)

// Mode selects the comparison strategy requested by the caller.
type Mode string

const (
	// ModeBasic runs only the deterministic lexical comparison.
	ModeBasic Mode = "basic"
	// ModeAI requires an AI model and fails when none is configured.
	ModeAI Mode = "ai"
	// ModeAuto prefers AI and degrades to the lexical comparison.
	ModeAuto Mode = "auto"
)

// Method records which comparison strategy actually executed, which may
// differ from the requested mode when the AI path degrades.
const (
	MethodBasic         = "basic"
	MethodAI            = "ai"
	MethodBasicFallback = "basic_fallback"
)

// Tier tags which level of the semantic cascade produced a result.
const (
	TierDetailed = "detailed"
	TierSimple   = "simple"
	TierFallback = "fallback"
)

// Categories is the fixed set of technical drawing comparison categories,
// each mapped to a short description used when prompting a model.
var Categories = map[string]string{
	"structural_elements": "Beams, columns, foundations, supports",
	"dimensions":          "Measurements, sizes, specifications",
	"materials":           "Material types, grades, properties",
	"annotations":         "Labels, notes, callouts, legends",
	"symbols":             "Standard symbols, notations, markers",
	"layout":              "Overall arrangement and spatial relationships",
	"details":             "Technical details, connections, joints",
	"calculations":        "Load calculations, design values, formulas",
}

// SemanticResult holds an AI model's judgment of two drawing texts.
type SemanticResult struct {
	// SimilarityScore is the model's similarity judgment in [0, 1].
	SimilarityScore float64 `json:"similarity_score"`
	// Confidence is the model's self-reported certainty in [0, 1].
	Confidence float64 `json:"confidence"`
	// SemanticDifferences lists meaningful differences in free text.
	SemanticDifferences []string `json:"semantic_differences"`
	// TechnicalAnalysis holds the classified difference lists under the
	// keys major_differences, minor_differences, common_elements and
	// critical_discrepancies. Degraded tiers record "explanation" or
	// "error" entries instead.
	TechnicalAnalysis map[string]interface{} `json:"technical_analysis"`
	// Categories maps category names to per-category similarity scores.
	Categories map[string]float64 `json:"categories"`
	// Reasoning is the model's explanation of its judgment.
	Reasoning string `json:"reasoning"`
	// RawSimilarity duplicates the lexical ratio for cross-checking.
	RawSimilarity float64 `json:"raw_similarity"`
	// Tier records which cascade tier produced this result.
	Tier string `json:"tier"`
	// Timestamp marks result creation.
	Timestamp time.Time `json:"timestamp"`
}

// ComparisonResult is the final output of a comparison.
type ComparisonResult struct {
	// ID identifies this comparison for downstream correlation.
	ID string `json:"id"`
	// SimilarityScore is the score reported to the caller, selected by
	// the method that actually executed.
	SimilarityScore float64 `json:"similarity_score"`
	// RawSimilarity is the lexical alignment ratio, always computed.
	RawSimilarity float64 `json:"raw_similarity"`
	// Differences holds unified diff lines (basic) or semantic
	// difference statements (ai). Never nil.
	Differences []string `json:"differences"`
	// Method is one of MethodBasic, MethodAI or MethodBasicFallback and
	// reflects what actually executed, not what was requested.
	Method string `json:"comparison_method"`
	// TextA and TextB retain the input texts for downstream display.
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
	// Timestamp marks result creation.
	Timestamp time.Time `json:"timestamp"`
	// AIAnalysis is present only when Method == MethodAI.
	AIAnalysis *SemanticResult `json:"ai_analysis,omitempty"`
}

// Clamp bounds v to [0, 1]. NaN collapses to 0 so malformed model output
// can never surface an invalid score.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Normalize clamps every score carried by the result.
func (r *SemanticResult) Normalize() {
	r.SimilarityScore = Clamp(r.SimilarityScore)
	r.Confidence = Clamp(r.Confidence)
	for k, v := range r.Categories {
		r.Categories[k] = Clamp(v)
	}
}
