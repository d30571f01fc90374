// Package llm provides text generation providers.
package llm

import (
	"context"
	"errors"
)

// ErrNoResponse indicates the model returned no usable text.
var ErrNoResponse = errors.New("llm: no response from model")

// Provider generates free text from a prompt. Implementations may fail with
// transport errors; callers decide whether a failure is fatal or merely
// means "no suggestion available".
type Provider interface {
	// Generate produces a response for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
