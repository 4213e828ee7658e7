// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Yates-Labs/postcraft/internal/llm"
	"github.com/Yates-Labs/postcraft/internal/orchestrator"
	"github.com/Yates-Labs/postcraft/internal/studio"
	"github.com/joho/godotenv"
)

const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvBaseURL     = "OPENAI_API_BASE_URL"
	EnvChatModel   = "POSTCRAFT_CHAT_MODEL"
	EnvPromptModel = "POSTCRAFT_PROMPT_MODEL"
	EnvImageModel  = "POSTCRAFT_IMAGE_MODEL"
	EnvRPS         = "POSTCRAFT_RPS"
	EnvLogLevel    = "POSTCRAFT_LOG_LEVEL"
	EnvLogFormat   = "POSTCRAFT_LOG_FORMAT"
)

var (
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is required")
	ErrInvalidValue  = errors.New("invalid configuration value")
)

// Config is built once at startup and passed by value.
type Config struct {
	APIKey  string
	BaseURL string

	ChatModel   string
	PromptModel string
	ImageModel  string

	// RequestsPerSecond caps outbound API calls; 0 disables the limit
	RequestsPerSecond float64

	LogLevel  string
	LogFormat string
}

// Default returns a Config with every optional setting filled in.
func Default() Config {
	return Config{
		ChatModel:   "gpt-4o",
		PromptModel: studio.DefaultConfig().PromptModel,
		ImageModel:  studio.DefaultConfig().ImageModel,
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// Load reads the environment after loading envFiles. With no files it tries
// ./.env and ignores its absence. Variables already set are never overridden.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := Default()
	cfg.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	cfg.BaseURL = os.Getenv(EnvBaseURL)

	stringVar(&cfg.ChatModel, EnvChatModel)
	stringVar(&cfg.PromptModel, EnvPromptModel)
	stringVar(&cfg.ImageModel, EnvImageModel)
	stringVar(&cfg.LogLevel, EnvLogLevel)
	stringVar(&cfg.LogFormat, EnvLogFormat)

	if v := strings.TrimSpace(os.Getenv(EnvRPS)); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps < 0 {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, EnvRPS, v)
		}
		cfg.RequestsPerSecond = rps
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return Config{}, fmt.Errorf("%w: %s=%q (use 'json' or 'console')", ErrInvalidValue, EnvLogFormat, cfg.LogFormat)
	}

	return cfg, nil
}

func stringVar(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// LLMConfig returns the settings for llm.NewOpenAIClient.
func (c Config) LLMConfig() llm.Config {
	return llm.Config{
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// OrchestratorConfig returns the post pipeline settings.
func (c Config) OrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Model:        c.ChatModel,
		ArticleModel: c.ChatModel,
	}
}

// StudioConfig returns the image facade settings.
func (c Config) StudioConfig() studio.Config {
	return studio.Config{
		PromptModel: c.PromptModel,
		ImageModel:  c.ImageModel,
	}
}
