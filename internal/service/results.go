package service

import (
	"errors"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrGenerationFailed = errors.New("challenge generation failed")
	ErrInternal         = errors.New("internal error")
)

// Status discriminates the result of an engine operation.
type Status string

const (
	StatusNoChallenge       Status = "no_challenge"
	StatusActive            Status = "has_active_challenge"
	StatusSolved            Status = "solved"
	StatusNewChallenge      Status = "new_challenge"
	StatusExistingChallenge Status = "existing_challenge"
	StatusAlreadySolved     Status = "already_solved"
	StatusCorrect           Status = "correct"
	StatusWrongWithAttempts Status = "wrong_with_attempts"
	StatusWrongNoAttempts   Status = "wrong_no_attempts"
	StatusHint              Status = "hint"
	StatusError             Status = "error"
)

// ChallengeSummary is the user-visible part of a challenge.
type ChallengeSummary struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Question string            `json:"question"`
	Language entities.Language `json:"language"`
}

func summarize(c *entities.Challenge) *ChallengeSummary {
	if c == nil {
		return nil
	}
	return &ChallengeSummary{
		ID:       c.ID,
		Title:    c.Title,
		Question: c.Question,
		Language: c.Language,
	}
}

// Result is the tagged outcome of an engine operation. Which fields are
// meaningful depends on Status.
type Result struct {
	Status        Status            `json:"status"`
	UserID        string            `json:"userId"`
	Challenge     *ChallengeSummary `json:"challenge,omitempty"`
	AttemptsUsed  int               `json:"attemptsUsed"`
	AttemptsLeft  int               `json:"attemptsLeft"`
	Score         int               `json:"score"`
	Streak        int               `json:"streak"`
	CorrectAnswer string            `json:"correctAnswer,omitempty"`
	Hint          string            `json:"hint,omitempty"`
	Error         string            `json:"error,omitempty"`

	// Err is the underlying cause of a StatusError result.
	Err error `json:"-"`
}

// IsError reports whether the operation failed.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

func errorResult(userID string, err error, message string) Result {
	return Result{
		Status: StatusError,
		UserID: userID,
		Error:  message,
		Err:    err,
	}
}

func withProgress(r Result, st *entities.UserState) Result {
	r.Score = st.Score
	r.Streak = st.Streak
	return r
}
