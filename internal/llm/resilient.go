package llm

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"go.uber.org/zap"
)

// ResilientConfig tunes the retry and circuit breaker around a provider.
type ResilientConfig struct {
	MaxAttempts      int
	InitialDelay     time.Duration
	MaxDelay         time.Duration
	FailureThreshold uint32        // consecutive failures that open the breaker
	OpenTimeout      time.Duration // how long the breaker stays open
}

// DefaultResilientConfig returns defaults suited to a single chat request.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:      3,
		InitialDelay:     500 * time.Millisecond,
		MaxDelay:         5 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      60 * time.Second,
	}
}

// ResilientProvider wraps a provider with retry and a circuit breaker.
type ResilientProvider struct {
	provider       Provider
	circuitBreaker circuitbreaker.CircuitBreaker[*Response]
	retrier        retry.Retry[*Response]
}

// NewResilientProvider wraps provider. Transient errors are retried with
// exponential backoff; repeated failures open the breaker.
func NewResilientProvider(provider Provider, cfg ResilientConfig, logger *zap.Logger) *ResilientProvider {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	rp := &ResilientProvider{provider: provider}

	rp.circuitBreaker = circuitbreaker.New[*Response](circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			logger.Warn("llm circuit breaker state change",
				zap.String("model", provider.ModelID()),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	rp.retrier = retry.New[*Response](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      cfg.MaxDelay,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})

	return rp
}

func (p *ResilientProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return p.circuitBreaker.Execute(ctx, func(ctx context.Context) (*Response, error) {
		return p.retrier.Do(ctx, func(ctx context.Context) (*Response, error) {
			return p.provider.Generate(ctx, req)
		})
	})
}

func (p *ResilientProvider) ModelID() string {
	return p.provider.ModelID()
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rl *ErrRateLimit
	var unavail *ErrProviderUnavailable
	var invalid *ErrInvalidResponse
	return errors.As(err, &rl) || errors.As(err, &unavail) || errors.As(err, &invalid)
}
