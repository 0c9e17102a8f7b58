package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fastResilience() ResilientConfig {
	return ResilientConfig{
		MaxAttempts:      3,
		InitialDelay:     time.Millisecond,
		MaxDelay:         5 * time.Millisecond,
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
	}
}

func TestResilient_RetriesTransientErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := NewResilientProvider(mock, fastResilience(), zap.NewNop())

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
}

func TestResilient_DoesNotRetryPermanentErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: errors.New("bad request")},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := NewResilientProvider(mock, fastResilience(), zap.NewNop())

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestResilient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := fastResilience()
	cfg.MaxAttempts = 1
	cfg.FailureThreshold = 1

	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := NewResilientProvider(mock, cfg, zap.NewNop())

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	_, err = p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount(), "open breaker must short-circuit the provider")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(context.DeadlineExceeded))
	assert.False(t, isRetryable(&ErrProviderUnavailable{Err: context.Canceled}))
	assert.True(t, isRetryable(&ErrProviderUnavailable{}))
	assert.True(t, isRetryable(&ErrInvalidResponse{Err: errors.New("schema")}))
	assert.False(t, isRetryable(errors.New("boom")))
}
