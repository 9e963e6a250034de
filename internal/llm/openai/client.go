package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

// Chat completions endpoints for the OpenAI-compatible providers.
var (
	groqURL   = "https://api.groq.com/openai/v1/chat/completions"
	openaiURL = "https://api.openai.com/v1/chat/completions"
)

// Client implements llm.Completer against an OpenAI-compatible
// chat completions API.
type Client struct {
	provider   string
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewClient constructs a client for provider "groq" or "openai". An empty
// baseURL selects the provider's public endpoint.
func NewClient(provider, apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for %s", provider)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required for %s", provider)
	}
	url := strings.TrimSpace(baseURL)
	if url == "" {
		switch provider {
		case "groq":
			url = groqURL
		case "openai":
			url = openaiURL
		default:
			return nil, fmt.Errorf("unsupported provider: %s", provider)
		}
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		provider: provider,
		apiKey:   apiKey,
		model:    model,
		url:      url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the system prompt and user text as a two-message exchange.
func (c *Client) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
		Temperature: llm.Temperature,
		TopP:        llm.TopP,
		MaxTokens:   llm.MaxTokens,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", c.fail(0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", c.fail(0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", c.fail(0, fmt.Errorf("request timeout: %w", err))
		}
		return "", c.fail(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(resp.StatusCode, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", c.fail(resp.StatusCode, fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}
		return "", c.fail(resp.StatusCode, fmt.Errorf("response parse: %w", err))
	}
	if parsed.Error != nil {
		return "", c.fail(resp.StatusCode, fmt.Errorf("%s (%s)", parsed.Error.Message, parsed.Error.Type))
	}
	if resp.StatusCode >= 400 {
		return "", c.fail(resp.StatusCode, fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	if len(parsed.Choices) == 0 {
		return "", c.fail(resp.StatusCode, errors.New("response missing choices"))
	}

	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", c.fail(resp.StatusCode, llm.ErrEmptyContent)
	}
	c.logUsage(parsed)
	return content, nil
}

// Provider returns the provider name used in logs.
func (c *Client) Provider() string { return c.provider }

// Model returns the configured model id.
func (c *Client) Model() string { return c.model }

func (c *Client) fail(status int, err error) error {
	return &llm.RemoteError{Provider: c.provider, StatusCode: status, Err: err}
}

func (c *Client) logUsage(parsed chatResponse) {
	fields := map[string]any{
		"provider": c.provider,
		"model":    c.model,
	}
	if len(parsed.Choices) > 0 {
		fields["finish_reason"] = parsed.Choices[0].FinishReason
	}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Completer = (*Client)(nil)
