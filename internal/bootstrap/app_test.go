package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm/gemini"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm/openai"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/persona"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/profile"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/config"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
	dir := t.TempDir()
	path := filepath.Join(dir, "PROFILE.md")
	require.NoError(t, os.WriteFile(path, []byte("Builds Go services and voice agents."), 0o600))
	return config.Config{
		Env:           "dev",
		LLMProvider:   config.ProviderGroq,
		LLMTimeout:    5 * time.Second,
		ProfileSource: path,
		PersonaName:   "Karthik Samak",
	}
}

func TestBuildComposesPromptFromProfile(t *testing.T) {
	cfg := testConfig(t)

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "Builds Go services and voice agents.", app.ProfileText)
	assert.Contains(t, app.SystemPrompt, "Builds Go services and voice agents.")
	assert.Equal(t, app.SystemPrompt, app.ChatService.SystemPrompt())
	assert.IsType(t, llm.PlaceholderCompleter{}, app.Completer)
	assert.Equal(t, "llama-3.3-70b-versatile", app.Config.LLMModel)
}

func TestBuildFallsBackWhenProfileMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProfileSource = filepath.Join(t.TempDir(), "missing.md")

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, profile.Fallback, app.ProfileText)
	assert.Contains(t, app.SystemPrompt, profile.Fallback)
}

func TestBuildSelectsProvider(t *testing.T) {
	cases := []struct {
		provider string
		check    func(t *testing.T, c llm.Completer)
	}{
		{provider: config.ProviderGroq, check: func(t *testing.T, c llm.Completer) {
			client, ok := c.(*openai.Client)
			require.True(t, ok)
			assert.Equal(t, "groq", client.Provider())
		}},
		{provider: config.ProviderOpenAI, check: func(t *testing.T, c llm.Completer) {
			client, ok := c.(*openai.Client)
			require.True(t, ok)
			assert.Equal(t, "openai", client.Provider())
			assert.Equal(t, "gpt-4o-mini", client.Model())
		}},
		{provider: config.ProviderGemini, check: func(t *testing.T, c llm.Completer) {
			_, ok := c.(*gemini.Client)
			require.True(t, ok)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.LLMProvider = tc.provider
			cfg.LLMAPIKey = "test-key"

			app, err := Build(context.Background(), cfg)
			require.NoError(t, err)
			tc.check(t, app.Completer)
		})
	}
}

func TestBuildRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "bogus"
	cfg.LLMModel = "m"
	cfg.LLMAPIKey = "k"

	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildRouterServesChat(t *testing.T) {
	cfg := testConfig(t)
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)

	lifeStory, ok := persona.Default().Answer(persona.TopicLifeStory)
	require.True(t, ok)

	cases := map[string]string{
		`{"message":""}`:                   "I didn't catch that.",
		`{"message":"who are you"}`:        lifeStory,
		`{"message":"favourite language"}`: "Could you repeat that?",
	}
	for body, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
		assert.Equal(t, want, payload["response"])
	}
}
