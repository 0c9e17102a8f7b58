package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/config"
)

const serviceName = "devchallenge-bot"

// New returns a JSON production logger for env "production" and a console
// development logger otherwise. Every entry carries the service and env.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return l.With(zap.String("service", serviceName), zap.String("env", cfg.Env)), nil
}
