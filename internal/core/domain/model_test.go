package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"In range", 0.5, 0.5},
		{"Lower bound", 0.0, 0.0},
		{"Upper bound", 1.0, 1.0},
		{"Below range", -0.4, 0.0},
		{"Above range", 1.7, 1.0},
		{"NaN collapses to zero", math.NaN(), 0.0},
		{"Positive infinity", math.Inf(1), 1.0},
		{"Negative infinity", math.Inf(-1), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.in))
		})
	}
}

func TestSemanticResultNormalize(t *testing.T) {
	r := &SemanticResult{
		SimilarityScore: 1.3,
		Confidence:      math.NaN(),
		Categories:      map[string]float64{"dimensions": -0.5, "layout": 0.7},
	}

	r.Normalize()

	assert.Equal(t, 1.0, r.SimilarityScore)
	assert.Equal(t, 0.0, r.Confidence)
	assert.Equal(t, 0.0, r.Categories["dimensions"])
	assert.Equal(t, 0.7, r.Categories["layout"])
}

func TestCategoriesFixedSet(t *testing.T) {
	expected := []string{
		"structural_elements", "dimensions", "materials", "annotations",
		"symbols", "layout", "details", "calculations",
	}

	assert.Len(t, Categories, len(expected))
	for _, name := range expected {
		assert.Contains(t, Categories, name)
		assert.NotEmpty(t, Categories[name])
	}
}
