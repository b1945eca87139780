package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOCRNormalizer(t *testing.T) {
	n := NewOCRNormalizer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Clean text unchanged", "STEEL BEAM W14X30", "STEEL BEAM W14X30"},
		{"Whitespace runs collapse", "STEEL   BEAM\t\tW14X30", "STEEL BEAM W14X30"},
		{"Lines trimmed", "  SPAN 20FT  ", "SPAN 20FT"},
		{"Empty lines dropped", "BEAM\n\n\nCOLUMN", "BEAM\nCOLUMN"},
		{"Control characters dropped", "BE\x00AM \x07W14X30", "BEAM W14X30"},
		{"Case preserved", "Grade A36 steel", "Grade A36 steel"},
		{"Punctuation preserved", "6'-0\" x 6'-0\"", "6'-0\" x 6'-0\""},
		{"Empty input", "", ""},
		{"Whitespace only", "   \n \t \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}
