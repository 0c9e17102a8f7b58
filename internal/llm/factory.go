package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config selects and configures a provider.
type Config struct {
	Provider      string // gemini, openai, mock
	Model         string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Resilient     bool
	Resilience    ResilientConfig
}

// NewProvider builds the configured provider, wrapped with resilience when enabled.
func NewProvider(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Provider {
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL)
	case "mock":
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Resilient {
		p = NewResilientProvider(p, cfg.Resilience, logger)
	}

	logger.Info("llm provider configured",
		zap.String("provider", cfg.Provider),
		zap.String("model", p.ModelID()),
		zap.Bool("resilient", cfg.Resilient),
	)

	return p, nil
}
