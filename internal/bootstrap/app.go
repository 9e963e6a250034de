package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/chat"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm/gemini"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/llm/openai"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/persona"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/profile"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/config"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	ProfileText  string
	SystemPrompt string
	Completer    llm.Completer
	ChatService  *chat.Service
	ChatHandler  *chat.Handler
}

// Build loads the profile, composes the system prompt once and wires the
// chat service into the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.LLMProvider) == "" {
		cfg.LLMProvider = config.ProviderGroq
	}
	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = config.DefaultModel(cfg.LLMProvider)
	}

	profileText := profile.Load(ctx, profile.Options{
		Source:    cfg.ProfileSource,
		AWSRegion: cfg.AWSRegion,
	})

	answers := persona.Default()
	systemPrompt := persona.ComposeSystemPrompt(cfg.PersonaName, profileText, answers)

	completer, err := buildCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := chat.NewService(chat.Options{
		Answers:      answers,
		Completer:    completer,
		SystemPrompt: systemPrompt,
		Timeout:      cfg.LLMTimeout,
		Provider:     cfg.LLMProvider,
		Model:        cfg.LLMModel,
	})
	handler := chat.NewHandler(svc)

	return &App{
		Config:       cfg,
		Router:       server.NewRouter(server.RouterDeps{Config: cfg, ChatHandler: handler}),
		ProfileText:  profileText,
		SystemPrompt: systemPrompt,
		Completer:    completer,
		ChatService:  svc,
		ChatHandler:  handler,
	}, nil
}

func buildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	if cfg.LLMAPIKey == "" {
		telemetry.Warn("llm.not_configured", map[string]any{
			"provider": cfg.LLMProvider,
			"env_var":  cfg.APIKeyVar(),
		})
		return llm.PlaceholderCompleter{}, nil
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return client, nil
	case config.ProviderGroq, config.ProviderOpenAI:
		client, err := openai.NewClient(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s client: %w", cfg.LLMProvider, err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
