package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/util"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LLMProvider     string
	LLMModel        string
	LLMBaseURL      string
	LLMAPIKey       string
	LLMTimeout      time.Duration
	ProfileSource   string
	AWSRegion       string
	PersonaName     string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(getBool("DOTENV_OVERRIDE", false), ".env", "cmd/.env")

	provider := NormalizeProvider(getEnv("LLM_PROVIDER", ProviderGroq))
	return Config{
		Port:            getEnv("PORT", "5000"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000")),
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", DefaultModel(provider)),
		LLMBaseURL:      strings.TrimSpace(os.Getenv("LLM_BASE_URL")),
		LLMAPIKey:       strings.TrimSpace(os.Getenv(apiKeyVar(provider))),
		LLMTimeout:      getSeconds("LLM_TIMEOUT_SECONDS", 20*time.Second),
		ProfileSource:   getEnv("PROFILE_SOURCE", "../PROFILE.md"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		PersonaName:     getEnv("PERSONA_NAME", "Karthik Samak"),
		ShutdownTimeout: getSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

// DefaultModel returns the model used when LLM_MODEL is not set.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "llama-3.3-70b-versatile"
	}
}

// APIKeyVar names the environment variable holding the provider secret.
func (c Config) APIKeyVar() string {
	return apiKeyVar(c.LLMProvider)
}

// LogFields describes the config for the startup log line. The API key is
// reported only as present/absent plus a short fingerprint.
func (c Config) LogFields() map[string]any {
	fields := map[string]any{
		"env":             c.Env,
		"port":            c.Port,
		"llm_provider":    c.LLMProvider,
		"llm_model":       c.LLMModel,
		"llm_timeout_ms":  c.LLMTimeout.Milliseconds(),
		"profile_source":  c.ProfileSource,
		"api_key_var":     c.APIKeyVar(),
		"api_key_present": c.LLMAPIKey != "",
	}
	if c.LLMAPIKey != "" {
		fields["api_key_sha256"] = KeyFingerprint(c.LLMAPIKey)
	}
	return fields
}

// KeyFingerprint returns the first 8 hex chars of the key's SHA-256.
func KeyFingerprint(key string) string {
	return util.ShortHash(key, 8)
}

func apiKeyVar(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GOOGLE_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	}
	return def
}

func getSeconds(key string, def time.Duration) time.Duration {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

// NormalizeProvider maps a provider name to one of the Provider constants.
// "google" is accepted for gemini; anything unknown falls back to groq.
func NormalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return ProviderOpenAI
	case "gemini", "google":
		return ProviderGemini
	default:
		return ProviderGroq
	}
}
