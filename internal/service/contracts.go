package service

import (
	"context"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// StateStore owns all user state. Update must run fn and persist its result
// atomically for the user; if fn returns an error nothing is written.
type StateStore interface {
	Get(ctx context.Context, userID string) (*entities.UserState, error)
	Update(ctx context.Context, userID string, fn func(*entities.UserState) error) (*entities.UserState, error)
}

// Roster is the set of users opted into scheduled challenges.
type Roster interface {
	Add(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID string) error
	List(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Contains(ctx context.Context, userID string) (bool, error)
}

// ChallengeGenerator produces challenge content for a language.
type ChallengeGenerator interface {
	Generate(ctx context.Context, lang entities.Language) (*entities.ChallengeContent, error)
}

// Notifier delivers a formatted message to a user.
type Notifier interface {
	Send(ctx context.Context, userID, message string) error
}

// ChallengeAssigner makes sure a user holds a challenge for today.
type ChallengeAssigner interface {
	EnsureTodayChallenge(ctx context.Context, userID string) (*entities.Challenge, bool, error)
}
