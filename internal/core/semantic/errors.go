package semantic

import (
	"fmt"

	"github.com/baditaflorin/go_semantic_similarity/internal/core/prompt"
)

// ParseError reports that a model reply could not be decoded against the
// schema of the prompt variant that produced it. It is consumed by the
// degradation cascade and never surfaces to library callers.
type ParseError struct {
	Variant prompt.Variant
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s reply: %v", e.Variant, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
