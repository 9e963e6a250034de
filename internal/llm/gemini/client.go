// Package gemini implements llm.Completer on top of the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

const provider = "gemini"

// Client wraps a genai client bound to one model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini API client. baseURL is optional.
func NewClient(ctx context.Context, apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if strings.TrimSpace(baseURL) != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSpace(baseURL)}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete runs one generateContent call with the system prompt as the
// system instruction.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userText), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](llm.Temperature),
		TopP:              genai.Ptr[float32](llm.TopP),
		MaxOutputTokens:   llm.MaxTokens,
	})
	if err != nil {
		status := 0
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.Code
		}
		return "", &llm.RemoteError{Provider: provider, StatusCode: status, Err: err}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &llm.RemoteError{Provider: provider, Err: llm.ErrEmptyContent}
	}

	fields := map[string]any{"provider": provider, "model": c.model}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return text, nil
}

// Provider returns the provider name used in logs.
func (c *Client) Provider() string { return provider }

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

var _ llm.Completer = (*Client)(nil)
