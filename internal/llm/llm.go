package llm

import (
	"context"
	"errors"
	"fmt"
)

// Sampling parameters shared by every provider.
const (
	Temperature = 0.7
	TopP        = 1.0
	MaxTokens   = 120
)

// Completer sends a single system+user exchange to a hosted model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// RemoteError describes a failed remote completion.
type RemoteError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s completion failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ErrNotConfigured is returned by the placeholder completer.
var ErrNotConfigured = errors.New("llm completer not configured")

// ErrEmptyContent is returned when the provider answered without text.
var ErrEmptyContent = errors.New("response empty content")

// PlaceholderCompleter is used when no API key is available.
type PlaceholderCompleter struct{}

// Complete returns ErrNotConfigured wrapped in a RemoteError.
func (PlaceholderCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	_ = ctx
	_ = systemPrompt
	_ = userText
	return "", &RemoteError{Provider: "placeholder", Err: ErrNotConfigured}
}
