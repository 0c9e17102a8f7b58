package challengegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/llm"
)

// Config tunes the LLM request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the generation settings used in production.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

// Generator produces challenge content with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator backed by provider.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// Generate asks the model for one challenge in lang and validates the result.
func (g *Generator) Generate(ctx context.Context, lang entities.Language) (*entities.ChallengeContent, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("generate challenge: %w: %q", entities.ErrUnknownLanguage, lang)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(BuildPrompt(lang)),
		Schema:      ChallengeSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	return ParseContent(string(resp.Content))
}

// ParseContent turns raw model text into validated challenge content.
func ParseContent(raw string) (*entities.ChallengeContent, error) {
	payload, err := ExtractPayload(raw)
	if err != nil {
		return nil, err
	}

	if err := llm.ValidateJSON(ChallengeSchema, json.RawMessage(payload)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	var content entities.ChallengeContent
	if err := json.Unmarshal([]byte(payload), &content); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return &content, nil
}
