// Package config centralizes all environment access. Nothing outside this
// package reads os.Getenv; the rest of ggsum receives a Config built once at
// startup.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/saint0x/ggsum/pkg/errs"
)

// Provider names used across the gateway.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderAuto       = "auto"
)

// Config holds every tunable ggsum reads from the environment.
type Config struct {
	// Credentials
	OpenRouterKey string
	GeminiKey     string
	GitHubToken   string

	// Provider selection
	PreferredProvider string
	OpenRouterModel   string
	GeminiModel       string

	// Pipeline tunables
	DefaultDays   int
	MaxDiffChars  int
	SubjectLimit  int
	MaxRetries    int
	BackoffBase   time.Duration
	HTTPTimeout   time.Duration
	Temperature   float64
	MaxOutputToks int

	// Integrations
	SlackWebhookURL string
}

// Load builds a Config from the process environment, reading .env first if
// one exists in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),

		PreferredProvider: getEnv("GGSUM_PROVIDER", ProviderAuto),
		OpenRouterModel:   getEnv("GGSUM_OPENROUTER_MODEL", "xiaomi/mimo-v2-flash:free"),
		GeminiModel:       getEnv("GGSUM_GEMINI_MODEL", "gemini-flash-latest"),

		DefaultDays:   getEnvInt("GGSUM_DAYS", 7),
		MaxDiffChars:  getEnvInt("GGSUM_MAX_DIFF", 8000),
		SubjectLimit:  getEnvInt("GGSUM_SUBJECT_LIMIT", 72),
		MaxRetries:    getEnvInt("GGSUM_MAX_RETRIES", 2),
		BackoffBase:   time.Duration(getEnvInt("GGSUM_BACKOFF_MS", 500)) * time.Millisecond,
		HTTPTimeout:   time.Duration(getEnvInt("GGSUM_HTTP_TIMEOUT_S", 60)) * time.Second,
		Temperature:   0.7,
		MaxOutputToks: 1024,

		SlackWebhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
	}
}

// ProviderOrder returns the providers to try, highest priority first, limited
// to those with credentials. An explicit preference pins the order to that
// provider alone; auto prefers OpenRouter over Gemini.
func (c *Config) ProviderOrder() ([]string, error) {
	switch c.PreferredProvider {
	case ProviderOpenRouter:
		if c.OpenRouterKey != "" {
			return []string{ProviderOpenRouter}, nil
		}
	case ProviderGemini:
		if c.GeminiKey != "" {
			return []string{ProviderGemini}, nil
		}
	default:
		var order []string
		if c.OpenRouterKey != "" {
			order = append(order, ProviderOpenRouter)
		}
		if c.GeminiKey != "" {
			order = append(order, ProviderGemini)
		}
		if len(order) > 0 {
			return order, nil
		}
	}
	return nil, errs.NoProviderConfigured()
}

// Validate checks that at least one provider is usable.
func (c *Config) Validate() error {
	_, err := c.ProviderOrder()
	return err
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
