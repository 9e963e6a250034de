package main

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

func TestHandlerServesHealthz(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	t.Setenv("PROFILE_SOURCE", filepath.Join(t.TempDir(), "missing.md"))
	t.Setenv("GROQ_API_KEY", "")

	resp, err := handler(context.Background(), events.APIGatewayV2HTTPRequest{
		RawPath: "/healthz",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/healthz",
			},
		},
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, `"ok":true`) {
		t.Fatalf("unexpected body %q", resp.Body)
	}
}
