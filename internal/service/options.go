package service

import (
	"time"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

const (
	defaultGenerationTimeout = 30 * time.Second
	defaultMaxConcurrent     = 10
)

type settings struct {
	now               func() time.Time
	generationTimeout time.Duration
	maxConcurrent     int
	schedule          []entities.ScheduleSlot
}

func newSettings(opts []Option) settings {
	s := settings{
		now:               time.Now,
		generationTimeout: defaultGenerationTimeout,
		maxConcurrent:     defaultMaxConcurrent,
		schedule:          entities.DefaultSchedule,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures the services in this package.
type Option func(*settings)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithGenerationTimeout bounds every generator call.
func WithGenerationTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.generationTimeout = d
		}
	}
}

// WithMaxConcurrent bounds parallel per-user work in a distribution run.
func WithMaxConcurrent(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithSchedule overrides the daily distribution slots.
func WithSchedule(slots []entities.ScheduleSlot) Option {
	return func(s *settings) {
		if len(slots) > 0 {
			s.schedule = slots
		}
	}
}
