package ports

// Normalizer cleans extracted drawing text before lexical comparison.
type Normalizer interface {
	Normalize(text string) string
}
