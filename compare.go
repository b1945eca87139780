// compare.go
// Package semanticsimilarity compares two technical drawing texts and
// produces a similarity judgment plus a list of differences. Three modes
// are supported: a deterministic lexical mode, an AI-semantic mode backed
// by a language model, and an auto mode that prefers AI but degrades
// gracefully to the lexical baseline. Multiple models can be queried and
// merged into a single consensus judgment.
//
// This version uses the functional options pattern to allow configuration
// of the model, temperature, token budget, timeouts and logging.
package semanticsimilarity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/baditaflorin/l"
	"github.com/google/uuid"

	"github.com/baditaflorin/go_semantic_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_semantic_similarity/internal/adapters/openai"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/consensus"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/lexical"
	"github.com/baditaflorin/go_semantic_similarity/internal/core/semantic"
	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
	"github.com/baditaflorin/go_semantic_similarity/internal/warmup"
)

// Mode selects the comparison strategy.
type Mode = domain.Mode

// Comparison modes.
const (
	ModeBasic = domain.ModeBasic
	ModeAI    = domain.ModeAI
	ModeAuto  = domain.ModeAuto
)

// Method values recorded on results, reflecting what actually executed.
const (
	MethodBasic         = domain.MethodBasic
	MethodAI            = domain.MethodAI
	MethodBasicFallback = domain.MethodBasicFallback
)

// ComparisonResult is the final output of a comparison.
type ComparisonResult = domain.ComparisonResult

// SemanticResult holds an AI model's judgment, nested in ComparisonResult.
type SemanticResult = domain.SemanticResult

// ErrAIUnavailable is returned when mode ai (or consensus) is requested but
// no model invoker is configured. The caller explicitly demanded AI, so no
// fallback is attempted.
var ErrAIUnavailable = errors.New("AI comparison not available: no model invoker configured")

// ErrNoResults is returned when a consensus is requested over zero models.
var ErrNoResults = consensus.ErrNoResults

// Config holds configuration options for the comparator.
type Config struct {
	Model         string
	FallbackModel string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	APIKey        string
	BaseURL       string
	Invoker       ports.ModelInvoker
	Normalizer    ports.Normalizer
	Logger        ports.Logger
	WarmUp        bool
	WarmUpConfig  warmup.Config
}

// Option defines a functional option for configuring the comparator.
type Option func(*Config)

// WithModel sets the primary model identifier.
func WithModel(model string) Option {
	return func(cfg *Config) {
		cfg.Model = model
	}
}

// WithFallbackModel sets the model used by the simplified cascade tier.
func WithFallbackModel(model string) Option {
	return func(cfg *Config) {
		cfg.FallbackModel = model
	}
}

// WithTemperature sets the sampling temperature for model calls.
func WithTemperature(t float64) Option {
	return func(cfg *Config) {
		cfg.Temperature = t
	}
}

// WithMaxTokens sets the reply token budget for detailed analyses.
func WithMaxTokens(n int) Option {
	return func(cfg *Config) {
		cfg.MaxTokens = n
	}
}

// WithTimeout bounds each individual model call.
func WithTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.Timeout = d
	}
}

// WithAPIKey configures the built-in OpenAI-compatible invoker.
func WithAPIKey(key string) Option {
	return func(cfg *Config) {
		cfg.APIKey = key
	}
}

// WithBaseURL overrides the API endpoint of the built-in invoker.
func WithBaseURL(url string) Option {
	return func(cfg *Config) {
		cfg.BaseURL = url
	}
}

// WithInvoker sets a custom model invoker, replacing the built-in client.
func WithInvoker(invoker ports.ModelInvoker) Option {
	return func(cfg *Config) {
		cfg.Invoker = invoker
	}
}

// WithNormalizer sets an optional text normalizer applied before lexical
// comparison. By default texts are compared exactly as extracted.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *Config) {
		cfg.Normalizer = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *Config) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(wc warmup.Config) Option {
	return func(cfg *Config) {
		cfg.WarmUpConfig = wc
		cfg.WarmUp = true
	}
}

// Comparator orchestrates lexical and AI-semantic comparison of two
// drawing texts. It is safe for concurrent use: configuration is read-only
// after construction and every comparison builds fresh result values.
type Comparator struct {
	config    Config
	lexical   ports.LexicalComparator
	analyzer  *semantic.Analyzer
	consensus *consensus.Engine
	invoker   ports.ModelInvoker
	logger    ports.Logger
}

// New creates a new Comparator with the provided functional options.
//
// If neither an invoker nor an API key is configured, AI comparison is
// unavailable: mode basic and auto still work, mode ai returns
// ErrAIUnavailable.
func New(opts ...Option) (*Comparator, error) {
	defaults := semantic.DefaultConfig()
	cfg := Config{
		Model:         defaults.Model,
		FallbackModel: defaults.FallbackModel,
		Temperature:   defaults.Temperature,
		MaxTokens:     defaults.MaxTokens,
		Timeout:       defaults.Timeout,
		WarmUpConfig:  warmup.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Logger == nil {
		lg, err := createDefaultLogger()
		if err != nil {
			return nil, err
		}
		cfg.Logger = logger.FromExisting(lg)
	}

	if cfg.Invoker == nil && cfg.APIKey != "" {
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		}, cfg.Logger)
		if err != nil {
			return nil, err
		}
		cfg.Invoker = client
	}

	c := &Comparator{
		config:    cfg,
		lexical:   lexical.NewCalculator(cfg.Logger, cfg.Normalizer),
		consensus: consensus.NewEngine(),
		invoker:   cfg.Invoker,
		logger:    cfg.Logger,
	}

	if cfg.Invoker != nil {
		analyzer, err := semantic.NewAnalyzer(semantic.Config{
			Model:         cfg.Model,
			FallbackModel: cfg.FallbackModel,
			Temperature:   cfg.Temperature,
			MaxTokens:     cfg.MaxTokens,
			Timeout:       cfg.Timeout,
		}, cfg.Invoker, cfg.Logger)
		if err != nil {
			return nil, err
		}
		c.analyzer = analyzer
		cfg.Logger.Info("AI semantic comparison enabled", "model", cfg.Model)
	} else {
		cfg.Logger.Info("AI semantic comparison disabled, lexical comparison only")
	}

	if cfg.WarmUp {
		mgr := warmup.NewManager(cfg.Logger, cfg.WarmUpConfig)
		mgr.RegisterComparator(c.lexical)
		if cfg.Normalizer != nil {
			mgr.RegisterNormalizer(cfg.Normalizer)
		}
		mgr.WarmUp(context.Background())
	}

	return c, nil
}

// AIAvailable reports whether an AI model invoker is configured.
func (c *Comparator) AIAvailable() bool {
	return c.analyzer != nil
}

// Compare compares two drawing texts using the requested mode and returns
// the final result.
//
// The lexical baseline is always computed synchronously before any model
// call. Mode basic never touches the model path. Mode ai requires a
// configured invoker and otherwise returns ErrAIUnavailable. Mode auto
// behaves as basic without an invoker and otherwise runs the AI cascade;
// degradation inside the cascade still reports method "ai", while a
// failure escaping the cascade entirely (such as a context that died
// before any attempt) relabels the result "basic_fallback".
func (c *Comparator) Compare(ctx context.Context, textA, textB string, mode Mode) (*ComparisonResult, error) {
	result := c.baseline(ctx, textA, textB)

	switch mode {
	case ModeBasic:
		c.logger.Debug("Using basic text comparison",
			"similarity", result.RawSimilarity,
		)
		return result, nil

	case ModeAI:
		if c.analyzer == nil {
			return nil, ErrAIUnavailable
		}
		analysis, err := c.analyzer.Analyze(ctx, c.config.Model, textA, textB, result.RawSimilarity)
		if err != nil {
			return nil, fmt.Errorf("ai comparison failed: %w", err)
		}
		applyAnalysis(result, analysis)
		return result, nil

	case ModeAuto:
		if c.analyzer == nil {
			c.logger.Debug("AI not available, using basic text comparison")
			return result, nil
		}
		analysis, err := c.analyzer.Analyze(ctx, c.config.Model, textA, textB, result.RawSimilarity)
		if err != nil {
			c.logger.Warn("AI comparison failed, falling back to basic text comparison",
				"error", err,
			)
			result.Method = domain.MethodBasicFallback
			return result, nil
		}
		applyAnalysis(result, analysis)
		return result, nil

	default:
		return nil, fmt.Errorf("unknown comparison mode %q", mode)
	}
}

// CompareWithConsensus queries every listed model concurrently and merges
// the per-model judgments into one consensus result. Each model runs its
// own degradation cascade; a model whose context dies before its cascade
// starts is omitted rather than failing the whole comparison. At least one
// model must be supplied and an invoker must be configured.
func (c *Comparator) CompareWithConsensus(ctx context.Context, textA, textB string, models []string) (*ComparisonResult, error) {
	if c.analyzer == nil {
		return nil, ErrAIUnavailable
	}

	result := c.baseline(ctx, textA, textB)

	results := make(map[string]*domain.SemanticResult, len(models))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, model := range models {
		wg.Add(1)
		go func(model string) {
			defer wg.Done()
			analysis, err := c.analyzer.Analyze(ctx, model, textA, textB, result.RawSimilarity)
			if err != nil {
				c.logger.Warn("Model omitted from consensus", "model", model, "error", err)
				return
			}
			mu.Lock()
			results[model] = analysis
			mu.Unlock()
		}(model)
	}
	wg.Wait()

	merged, err := c.consensus.Merge(results)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Consensus comparison complete",
		"models", len(results),
		"similarity", merged.SimilarityScore,
		"confidence", merged.Confidence,
	)
	applyAnalysis(result, merged)
	return result, nil
}

// baseline computes the always-available lexical result.
func (c *Comparator) baseline(ctx context.Context, textA, textB string) *domain.ComparisonResult {
	ratio := c.lexical.Ratio(ctx, textA, textB)
	diff := c.lexical.Diff(ctx, textA, textB)

	return &domain.ComparisonResult{
		ID:              uuid.NewString(),
		SimilarityScore: ratio,
		RawSimilarity:   ratio,
		Differences:     diff,
		Method:          domain.MethodBasic,
		TextA:           textA,
		TextB:           textB,
		Timestamp:       time.Now(),
	}
}

// applyAnalysis promotes a semantic analysis onto the final result.
func applyAnalysis(result *domain.ComparisonResult, analysis *domain.SemanticResult) {
	result.SimilarityScore = analysis.SimilarityScore
	result.Differences = analysis.SemanticDifferences
	result.Method = domain.MethodAI
	result.AIAnalysis = analysis
}
