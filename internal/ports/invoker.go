package ports

import "context"

// ModelRequest describes a single model invocation.
type ModelRequest struct {
	// Model is the model identifier, e.g. "gpt-4o".
	Model string
	// System is the system role instruction.
	System string
	// Prompt is the user message body.
	Prompt string
	// Temperature controls sampling randomness.
	Temperature float64
	// MaxTokens bounds the reply length.
	MaxTokens int
}

// ModelInvoker issues one model call and returns the raw textual reply.
// Transport, quota and timeout failures are returned as errors; the caller
// decides how a failure cascades.
type ModelInvoker interface {
	Invoke(ctx context.Context, req ModelRequest) (string, error)
}
