package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/bootstrap"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/config"
)

func main() {
	cfg := config.Load()

	printPrompt := flag.Bool("print-prompt", false, "Print the composed system prompt and exit")
	message := flag.String("message", "", "Run one message through the chat pipeline")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (groq, openai, gemini)")
	model := flag.String("model", "", "LLM model (defaults to the provider default)")
	profileSource := flag.String("profile", cfg.ProfileSource, "Profile path or s3://bucket/key")
	flag.Parse()

	cfg = applyFlags(cfg, *provider, *model, *profileSource)

	if err := run(context.Background(), os.Stdout, cfg, *printPrompt, *message); err != nil {
		exitErr(err.Error())
	}
}

// applyFlags overrides cfg from the command line. Switching provider also
// switches the API key variable and the default model.
func applyFlags(cfg config.Config, provider, model, profileSource string) config.Config {
	if p := config.NormalizeProvider(provider); p != cfg.LLMProvider {
		cfg.LLMProvider = p
		cfg.LLMAPIKey = strings.TrimSpace(os.Getenv(cfg.APIKeyVar()))
		cfg.LLMModel = config.DefaultModel(p)
	}
	if strings.TrimSpace(model) != "" {
		cfg.LLMModel = strings.TrimSpace(model)
	}
	if strings.TrimSpace(profileSource) != "" {
		cfg.ProfileSource = profileSource
	}
	return cfg
}

func run(ctx context.Context, w io.Writer, cfg config.Config, printPrompt bool, message string) error {
	if !printPrompt && message == "" {
		return fmt.Errorf("one of -print-prompt or -message is required")
	}

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if printPrompt {
		fmt.Fprintln(w, app.SystemPrompt)
	}
	if message != "" {
		result := app.ChatService.Handle(ctx, message)
		route := string(result.Route)
		if result.Topic != "" {
			route += " (" + string(result.Topic) + ")"
		}
		fmt.Fprintf(w, "route: %s\nresponse: %s\n", route, result.Reply)
	}
	return nil
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
