package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/challengegen"
	"github.com/aliskhannn/devchallenge-bot/internal/config"
	"github.com/aliskhannn/devchallenge-bot/internal/infra/postgres"
	"github.com/aliskhannn/devchallenge-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/devchallenge-bot/internal/llm"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

// stores groups the state store and roster for the configured backing.
type stores struct {
	state  service.StateStore
	roster service.Roster
	close  func()
}

func newStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		logger.Info("using in-memory storage")
		return &stores{
			state:  storage.NewStateStore(),
			roster: storage.NewRoster(),
			close:  func() {},
		}, nil
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	logger.Info("using postgres storage", zap.Int("max_connections", cfg.DB.MaxConnections))

	return &stores{
		state:  repository.NewUserStateRepository(pool, postgres.NewTransactor(pool)),
		roster: repository.NewRosterRepository(pool),
		close:  pool.Close,
	}, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.ChallengeGenerator, error) {
	if cfg.LLM.Provider == "static" {
		logger.Info("using static challenge bank")
		return challengegen.NewStatic(), nil
	}

	provider, err := llm.NewProvider(ctx, llm.Config{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		GeminiAPIKey:  cfg.LLM.GeminiAPIKey,
		OpenAIAPIKey:  cfg.LLM.OpenAIAPIKey,
		OpenAIBaseURL: cfg.LLM.BaseURL,
		Resilient:     cfg.LLM.Resilience,
		Resilience:    llm.DefaultResilientConfig(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create llm provider: %w", err)
	}

	return challengegen.New(provider, challengegen.DefaultConfig()), nil
}

func serviceOptions(cfg *config.Config) []service.Option {
	return []service.Option{
		service.WithGenerationTimeout(cfg.LLM.Timeout),
		service.WithMaxConcurrent(cfg.Scheduler.MaxConcurrent),
	}
}
