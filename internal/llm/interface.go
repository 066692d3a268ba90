package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by the client built when no provider credentials are set.
var ErrNotConfigured = errors.New("language service not configured")

// Client sends a single prompt to a language model and returns its text output.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one model call.
type Request struct {
	Model        string
	Instructions string
	Prompt       string
	Temperature  float64
	MaxTokens    int
	// Format, when set, asks the model for JSON matching the schema.
	Format *JSONFormat
}

// JSONFormat names a structured output schema.
type JSONFormat struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}
