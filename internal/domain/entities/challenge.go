package entities

import (
	"errors"
	"strings"
	"time"
)

// MaxAttempts is the number of answer submissions allowed per challenge.
const MaxAttempts = 2

var ErrInvalidChallenge = errors.New("invalid challenge content")

// Challenge is a single generated question assigned to one user.
// It is replaced wholesale when a new one is assigned.
type Challenge struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Question      string    `json:"question"`
	CorrectAnswer string    `json:"correctAnswer"`
	Hints         []string  `json:"hints"`
	Language      Language  `json:"language"`
	CreatedAt     time.Time `json:"createdAt"`
	Attempts      int       `json:"attempts"` // wrong submissions so far, 0..MaxAttempts
	Solved        bool      `json:"solved"`   // one-way false -> true
}

// ChallengeContent is what a generator produces before a challenge is assigned.
type ChallengeContent struct {
	Title    string   `json:"title"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Hints    []string `json:"hints"`
}

// Validate checks the generator output contract: non-empty text fields and 2-3 hints.
func (c *ChallengeContent) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.Join(ErrInvalidChallenge, errors.New("empty title"))
	}
	if strings.TrimSpace(c.Question) == "" {
		return errors.Join(ErrInvalidChallenge, errors.New("empty question"))
	}
	if strings.TrimSpace(c.Answer) == "" {
		return errors.Join(ErrInvalidChallenge, errors.New("empty answer"))
	}
	if len(c.Hints) < 2 || len(c.Hints) > 3 {
		return errors.Join(ErrInvalidChallenge, errors.New("expected 2 to 3 hints"))
	}
	for _, h := range c.Hints {
		if strings.TrimSpace(h) == "" {
			return errors.Join(ErrInvalidChallenge, errors.New("empty hint"))
		}
	}
	return nil
}

// NewChallenge builds a fresh, unattempted challenge from generated content.
func NewChallenge(id string, lang Language, content ChallengeContent, createdAt time.Time) *Challenge {
	hints := make([]string, len(content.Hints))
	copy(hints, content.Hints)

	return &Challenge{
		ID:            id,
		Title:         content.Title,
		Question:      content.Question,
		CorrectAnswer: content.Answer,
		Hints:         hints,
		Language:      lang,
		CreatedAt:     createdAt,
	}
}

// AttemptsLeft returns the remaining submissions, never negative.
func (c *Challenge) AttemptsLeft() int {
	left := MaxAttempts - c.Attempts
	if left < 0 {
		return 0
	}
	return left
}

// Exhausted reports whether the challenge is closed without being solved.
func (c *Challenge) Exhausted() bool {
	return !c.Solved && c.Attempts >= MaxAttempts
}

// HintIndex returns min(attempts, len(hints)-1), clamped at 0.
func (c *Challenge) HintIndex() int {
	idx := min(c.Attempts, len(c.Hints)-1)
	if idx < 0 {
		return 0
	}
	return idx
}

// Hint returns the hint matching the number of attempts used so far.
func (c *Challenge) Hint() string {
	if len(c.Hints) == 0 {
		return ""
	}
	return c.Hints[c.HintIndex()]
}

// Matches compares an answer to the canonical one. Both sides are trimmed and
// case-folded; equality or containment in either direction is a match.
func (c *Challenge) Matches(answer string) bool {
	user := normalizeAnswer(answer)
	correct := normalizeAnswer(c.CorrectAnswer)

	if user == "" || correct == "" {
		return user == correct
	}

	return user == correct ||
		strings.Contains(user, correct) ||
		strings.Contains(correct, user)
}

// Clone returns a deep copy.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Hints = make([]string, len(c.Hints))
	copy(cp.Hints, c.Hints)
	return &cp
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
