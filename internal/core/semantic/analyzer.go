// Package semantic implements the AI-backed comparison of two drawing
// texts as a three-tier degradation cascade: a detailed structured
// analysis, then a simplified prompt, then a lexical-only result. The
// cascade always terminates with a usable result; the final tier depends
// only on the deterministic lexical baseline.
package semantic

import (
	"context"
	"errors"
	"time"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/prompt"
	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// Fixed confidence constants for the degraded tiers. The simplified schema
// carries no confidence field, and the lexical fallback carries no model
// judgment at all.
const (
	SimpleConfidence   = 0.8
	FallbackConfidence = 0.3
)

// FallbackMessage is the single difference statement reported when both
// model tiers fail.
const FallbackMessage = "AI comparison failed, using text similarity"

// FallbackReasoning explains a lexical-only result.
const FallbackReasoning = "Fallback to basic text comparison due to API error"

// Reply length bounds per tier.
const (
	DefaultMaxTokens = 2000
	SimpleMaxTokens  = 500
)

// Config holds the model invocation parameters of the analyzer.
type Config struct {
	// Model is the primary model identifier.
	Model string
	// FallbackModel, when set, handles the simplified tier instead of
	// the model that failed the detailed tier.
	FallbackModel string
	// Temperature for model sampling. Low values keep analyses stable.
	Temperature float64
	// MaxTokens bounds detailed replies.
	MaxTokens int
	// Timeout bounds each individual model call.
	Timeout time.Duration
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		Model:         "gpt-4o",
		FallbackModel: "gpt-3.5-turbo",
		Temperature:   0.1,
		MaxTokens:     DefaultMaxTokens,
		Timeout:       30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	if c.MaxTokens <= 0 {
		return errors.New("maxTokens must be greater than 0")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	}
	return nil
}

// Analyzer runs the semantic comparison cascade against one model.
type Analyzer struct {
	config  Config
	invoker ports.ModelInvoker
	prompts *prompt.Builder
	parser  *Parser
	logger  ports.Logger
}

// NewAnalyzer creates a semantic analyzer backed by the given invoker.
func NewAnalyzer(config Config, invoker ports.ModelInvoker, logger ports.Logger) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if invoker == nil {
		return nil, errors.New("model invoker must not be nil")
	}
	return &Analyzer{
		config:  config,
		invoker: invoker,
		prompts: prompt.NewBuilder(),
		parser:  NewParser(),
		logger:  logger,
	}, nil
}

// Analyze runs the cascade for a single model. rawSimilarity is the lexical
// baseline for the same text pair, already computed by the caller; it is
// embedded in every tier's result and becomes the similarity score of the
// final tier.
//
// The cascade itself cannot fail: model and parse failures degrade tier by
// tier down to the lexical result. The only error returned is a context
// that was already dead before any attempt was made, which by definition
// escapes the degradation policy.
func (a *Analyzer) Analyze(ctx context.Context, model, textA, textB string, rawSimilarity float64) (*domain.SemanticResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if model == "" {
		model = a.config.Model
	}

	result, err := a.detailed(ctx, model, textA, textB)
	if err == nil {
		a.finish(result, domain.TierDetailed, rawSimilarity)
		a.logger.Debug("Detailed analysis complete",
			"model", model,
			"similarity", result.SimilarityScore,
			"confidence", result.Confidence,
		)
		return result, nil
	}
	a.logger.Warn("Detailed analysis failed, trying simplified prompt",
		"model", model,
		"error", err,
	)

	simpleModel := a.fallbackFor(model)
	result, err = a.simple(ctx, simpleModel, textA, textB)
	if err == nil {
		result.Confidence = SimpleConfidence
		a.finish(result, domain.TierSimple, rawSimilarity)
		a.logger.Debug("Simplified analysis complete",
			"model", simpleModel,
			"similarity", result.SimilarityScore,
		)
		return result, nil
	}
	a.logger.Warn("Simplified analysis failed, falling back to lexical similarity",
		"model", simpleModel,
		"error", err,
	)

	result = &domain.SemanticResult{
		SimilarityScore:     rawSimilarity,
		Confidence:          FallbackConfidence,
		SemanticDifferences: []string{FallbackMessage},
		TechnicalAnalysis:   map[string]interface{}{"error": err.Error()},
		Categories:          map[string]float64{},
		Reasoning:           FallbackReasoning,
	}
	a.finish(result, domain.TierFallback, rawSimilarity)
	return result, nil
}

func (a *Analyzer) detailed(ctx context.Context, model, textA, textB string) (*domain.SemanticResult, error) {
	raw, err := a.invoke(ctx, ports.ModelRequest{
		Model:       model,
		System:      prompt.DetailedSystem,
		Prompt:      a.prompts.Detailed(textA, textB),
		Temperature: a.config.Temperature,
		MaxTokens:   a.config.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return a.parser.ParseDetailed(raw)
}

func (a *Analyzer) simple(ctx context.Context, model, textA, textB string) (*domain.SemanticResult, error) {
	raw, err := a.invoke(ctx, ports.ModelRequest{
		Model:       model,
		System:      prompt.SimpleSystem,
		Prompt:      a.prompts.Simplified(textA, textB),
		Temperature: a.config.Temperature,
		MaxTokens:   SimpleMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return a.parser.ParseSimple(raw)
}

func (a *Analyzer) invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return a.invoker.Invoke(callCtx, req)
}

// fallbackFor picks the model for the simplified tier.
func (a *Analyzer) fallbackFor(model string) string {
	if a.config.FallbackModel != "" && a.config.FallbackModel != model {
		return a.config.FallbackModel
	}
	return model
}

func (a *Analyzer) finish(result *domain.SemanticResult, tier string, rawSimilarity float64) {
	result.RawSimilarity = rawSimilarity
	result.Tier = tier
	result.Timestamp = time.Now()
	result.Normalize()
}
