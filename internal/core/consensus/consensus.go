// Package consensus merges semantic comparison results from multiple
// models into a single judgment via confidence-weighted averaging.
package consensus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/domain"
)

// ErrNoResults reports a consensus request with zero model results. This is
// a contract violation by the caller, not a runtime degradation.
var ErrNoResults = errors.New("no valid results to create consensus from")

// Engine merges per-model semantic results. It never fails when given at
// least one result.
type Engine struct{}

// NewEngine creates a consensus engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Merge combines the per-model results into one consensus result.
//
// The consensus similarity is the confidence-weighted average of the model
// scores; when every confidence is zero the similarity is defined as 0.0.
// The consensus confidence is the mean confidence across models, capped at
// 1.0 against malformed inputs. Difference lists are unioned with
// duplicates removed, technical analysis and categories are taken from the
// most confident contributor, and the reasoning concatenates every model's
// own reasoning prefixed by its identifier. Models are visited in sorted
// identifier order so ties and list order are stable within a run.
func (e *Engine) Merge(results map[string]*domain.SemanticResult) (*domain.SemanticResult, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	if len(results) == 1 {
		for _, result := range results {
			return result, nil
		}
	}

	models := make([]string, 0, len(results))
	for model := range results {
		models = append(models, model)
	}
	sort.Strings(models)

	var weightedSum, totalWeight float64
	var best *domain.SemanticResult
	seen := make(map[string]bool)
	differences := []string{}
	reasonings := make([]string, 0, len(models))

	for _, model := range models {
		result := results[model]
		weightedSum += result.SimilarityScore * result.Confidence
		totalWeight += result.Confidence

		for _, diff := range result.SemanticDifferences {
			if !seen[diff] {
				seen[diff] = true
				differences = append(differences, diff)
			}
		}
		reasonings = append(reasonings, fmt.Sprintf("%s: %s", model, result.Reasoning))

		if best == nil || result.Confidence > best.Confidence {
			best = result
		}
	}

	similarity := 0.0
	if totalWeight > 0 {
		similarity = weightedSum / totalWeight
	}
	confidence := totalWeight / float64(len(results))
	if confidence > 1.0 {
		confidence = 1.0
	}

	consensus := &domain.SemanticResult{
		SimilarityScore:     similarity,
		Confidence:          confidence,
		SemanticDifferences: differences,
		TechnicalAnalysis:   best.TechnicalAnalysis,
		Categories:          best.Categories,
		Reasoning:           "Consensus from multiple models: " + strings.Join(reasonings, "; "),
		RawSimilarity:       best.RawSimilarity,
		Tier:                best.Tier,
		Timestamp:           time.Now(),
	}
	consensus.Normalize()
	return consensus, nil
}
