package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("groq", "test-key", "llama-3.3-70b-versatile", server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteSendsTwoMessagesWithSamplingParams(t *testing.T) {
	var mu sync.Mutex
	var got map[string]any
	var auth string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		got = payload
		auth = r.Header.Get("Authorization")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"\n I build RAG systems.\n"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	text, err := client.Complete(context.Background(), "SYSTEM", "What do you build?")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "\n I build RAG systems.\n" {
		t.Fatalf("unexpected text %q", text)
	}

	mu.Lock()
	defer mu.Unlock()
	if auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got["model"] != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model %v", got["model"])
	}
	if got["temperature"] != 0.7 {
		t.Fatalf("unexpected temperature %v", got["temperature"])
	}
	if got["top_p"] != 1.0 {
		t.Fatalf("unexpected top_p %v", got["top_p"])
	}
	if got["max_tokens"] != float64(llm.MaxTokens) {
		t.Fatalf("unexpected max_tokens %v", got["max_tokens"])
	}
	messages, ok := got["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %v", got["messages"])
	}
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	if first["role"] != "system" || first["content"] != "SYSTEM" {
		t.Fatalf("unexpected system message %v", first)
	}
	if second["role"] != "user" || second["content"] != "What do you build?" {
		t.Fatalf("unexpected user message %v", second)
	}
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "api error object", status: http.StatusUnauthorized, body: `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`, wantStatus: 401},
		{name: "non json error", status: http.StatusBadGateway, body: `bad gateway`, wantStatus: 502},
		{name: "malformed json", status: http.StatusOK, body: `{"choices":`, wantStatus: 200},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantStatus: 200},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"   "}}]}`, wantStatus: 200},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), "SYSTEM", "hi")
			if err == nil {
				t.Fatalf("expected error")
			}
			var remote *llm.RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("expected RemoteError, got %T: %v", err, err)
			}
			if remote.Provider != "groq" {
				t.Fatalf("unexpected provider %q", remote.Provider)
			}
			if remote.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", remote.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestCompleteNetworkFailure(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("openai", "k", "gpt-4o-mini", url, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Complete(context.Background(), "SYSTEM", "hi")
	var remote *llm.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
}

func TestCompleteHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := client.Complete(ctx, "SYSTEM", "hi"); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("groq", "", "m", "", 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("groq", "k", " ", "", 0); err == nil {
		t.Fatalf("expected error for missing model")
	}
	if _, err := NewClient("mistral", "k", "m", "", 0); err == nil {
		t.Fatalf("expected error for unknown provider without base url")
	}

	client, err := NewClient("groq", "k", "m", "", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.url != groqURL {
		t.Fatalf("expected groq url, got %s", client.url)
	}
	if client.httpClient.Timeout != 20*time.Second {
		t.Fatalf("expected default timeout, got %s", client.httpClient.Timeout)
	}
}
