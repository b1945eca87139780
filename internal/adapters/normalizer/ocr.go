// Package normalizer provides optional text normalization for noisy OCR
// extracts. Comparison runs on raw text by default; these normalizers are
// opt-in for scans where whitespace and control noise would otherwise
// dominate the lexical alignment.
package normalizer

import (
	"strings"
	"unicode"

	"github.com/baditaflorin/go_semantic_similarity/internal/ports"
)

// OCRNormalizer cleans common OCR extraction noise: control characters are
// dropped, runs of whitespace collapse to a single space, and lines are
// trimmed. Letter case and punctuation are preserved because they carry
// meaning in technical drawings (grades, callouts, dimension notation).
type OCRNormalizer struct{}

// NewOCRNormalizer creates a new OCR-noise normalizer.
func NewOCRNormalizer() ports.Normalizer {
	return &OCRNormalizer{}
}

// Normalize cleans the text line by line, dropping empty lines.
func (n *OCRNormalizer) Normalize(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		space := false
		for _, r := range line {
			switch {
			case unicode.IsControl(r):
				continue
			case unicode.IsSpace(r):
				space = true
			default:
				if space && sb.Len() > 0 {
					sb.WriteRune(' ')
				}
				space = false
				sb.WriteRune(r)
			}
		}
		if sb.Len() > 0 {
			out = append(out, sb.String())
		}
	}
	return strings.Join(out, "\n")
}
