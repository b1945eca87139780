package ports

import "context"

// LexicalComparator defines the interface for the deterministic text
// comparison baseline. Implementations must never fail: they are the
// guaranteed fallback for every other comparison strategy.
type LexicalComparator interface {
	// Ratio returns a sequence-alignment similarity in [0, 1].
	Ratio(ctx context.Context, textA, textB string) float64
	// Diff returns line-oriented unified diff lines between the texts.
	Diff(ctx context.Context, textA, textB string) []string
}
