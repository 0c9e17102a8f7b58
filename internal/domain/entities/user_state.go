package entities

import "time"

// dateLayout is the calendar-date format used for daily boundaries.
const dateLayout = "2006-01-02"

// UserState is everything the bot knows about one user.
type UserState struct {
	UserID            string     `json:"userId"`
	PreferredLanguage Language   `json:"preferredLanguage"`
	CurrentChallenge  *Challenge `json:"currentChallenge"`
	LastChallengeDate string     `json:"lastChallengeDate"` // YYYY-MM-DD (UTC), empty until first challenge
	Score             int        `json:"score"`
	Streak            int        `json:"streak"`
}

// NewUserState returns the default state for a user seen for the first time.
func NewUserState(userID string) *UserState {
	return &UserState{
		UserID:            userID,
		PreferredLanguage: DefaultLanguage,
	}
}

// NeedsNewChallenge is the staleness predicate: true when there is no
// challenge, it is solved, or it was assigned on another calendar day.
func (s *UserState) NeedsNewChallenge(today string) bool {
	return s.CurrentChallenge == nil ||
		s.CurrentChallenge.Solved ||
		s.LastChallengeDate != today
}

// Clone returns a deep copy.
func (s *UserState) Clone() *UserState {
	if s == nil {
		return nil
	}
	cp := *s
	cp.CurrentChallenge = s.CurrentChallenge.Clone()
	return &cp
}

// DateKey formats t as a UTC calendar date (YYYY-MM-DD).
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
