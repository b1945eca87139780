package semantic

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/prompt"
)

// Parser decodes raw model replies into semantic results. Each prompt
// variant has its own required schema; a reply that is not well-formed
// JSON or is missing its score field yields a ParseError.
type Parser struct{}

// NewParser creates a reply parser.
func NewParser() *Parser {
	return &Parser{}
}

type detailedReply struct {
	SimilarityScore     *float64               `json:"similarity_score"`
	Confidence          float64                `json:"confidence"`
	Reasoning           string                 `json:"reasoning"`
	SemanticDifferences []string               `json:"semantic_differences"`
	TechnicalAnalysis   map[string]interface{} `json:"technical_analysis"`
	Categories          map[string]float64     `json:"categories"`
}

type simpleReply struct {
	SimilarityPercentage *float64 `json:"similarity_percentage"`
	MainDifferences      []string `json:"main_differences"`
	Explanation          string   `json:"explanation"`
}

// ParseDetailed decodes a detailed-variant reply. Optional keys default to
// empty collections or zero; the similarity score is required.
func (p *Parser) ParseDetailed(raw string) (*domain.SemanticResult, error) {
	var reply detailedReply
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil {
		return nil, &ParseError{Variant: prompt.Detailed, Err: err}
	}
	if reply.SimilarityScore == nil {
		return nil, &ParseError{Variant: prompt.Detailed, Err: errors.New("missing similarity_score")}
	}

	result := &domain.SemanticResult{
		SimilarityScore:     *reply.SimilarityScore,
		Confidence:          reply.Confidence,
		SemanticDifferences: reply.SemanticDifferences,
		TechnicalAnalysis:   reply.TechnicalAnalysis,
		Categories:          reply.Categories,
		Reasoning:           reply.Reasoning,
	}
	if result.SemanticDifferences == nil {
		result.SemanticDifferences = []string{}
	}
	if result.TechnicalAnalysis == nil {
		result.TechnicalAnalysis = map[string]interface{}{}
	}
	if result.Categories == nil {
		result.Categories = map[string]float64{}
	}
	result.Normalize()
	return result, nil
}

// ParseSimple decodes a simplified-variant reply. The reported percentage
// is converted to a [0, 1] ratio.
func (p *Parser) ParseSimple(raw string) (*domain.SemanticResult, error) {
	var reply simpleReply
	if err := json.Unmarshal([]byte(stripFences(raw)), &reply); err != nil {
		return nil, &ParseError{Variant: prompt.Simple, Err: err}
	}
	if reply.SimilarityPercentage == nil {
		return nil, &ParseError{Variant: prompt.Simple, Err: errors.New("missing similarity_percentage")}
	}

	reasoning := reply.Explanation
	if reasoning == "" {
		reasoning = "Simple comparison performed"
	}

	result := &domain.SemanticResult{
		SimilarityScore:     *reply.SimilarityPercentage / 100.0,
		SemanticDifferences: reply.MainDifferences,
		TechnicalAnalysis:   map[string]interface{}{"explanation": reply.Explanation},
		Categories:          map[string]float64{},
		Reasoning:           reasoning,
	}
	if result.SemanticDifferences == nil {
		result.SemanticDifferences = []string{}
	}
	result.Normalize()
	return result, nil
}

// stripFences removes a surrounding markdown code fence, which models
// commonly wrap around JSON replies despite instructions not to.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
