// Package cli provides the initialization steps shared by the commands:
// logging, environment loading, configuration and advisor selection.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"financie/internal/advisor"
	"financie/internal/advisor/gemini"
	"financie/internal/advisor/openai"
	"financie/internal/config"
	"financie/internal/log"
)

// DefaultOpenAIModel is used when ADVISOR_MODEL is unset and the provider is
// openai.
const DefaultOpenAIModel = "gpt-4o-mini"

// MsgMissingAPIKey is logged at startup when no advisor credential is set.
const MsgMissingAPIKey = "API_KEY environment variable not set. Gemini API calls will fail."

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger.
func SetupLogger(level slog.Level) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = level
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// NewGenerator builds the text generator for the configured provider. It
// returns nil without error when no API key is set, which leaves the advisor
// answering with the not-configured message.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *log.Logger) (advisor.Generator, error) {
	if !cfg.AdvisorEnabled() {
		logger.Warn(MsgMissingAPIKey)
		return nil, nil
	}

	model := strings.TrimSpace(cfg.AdvisorModel)
	switch cfg.AdvisorProvider {
	case "openai":
		if model == "" {
			model = DefaultOpenAIModel
		}
		c, err := openai.New(cfg.APIKey, cfg.AdvisorBaseURL, model)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return c, nil
	case "gemini", "":
		if model == "" {
			model = gemini.DefaultModel
		}
		c, err := gemini.New(ctx, cfg.APIKey, model, cfg.AdvisorBaseURL)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", cfg.AdvisorProvider)
	}
}
