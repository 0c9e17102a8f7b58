package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

var ErrEmptyUserID = errors.New("empty user id")

// StateUpdate is a shallow partial update of a UserState. Nil fields are left
// untouched; ClearChallenge drops the current challenge.
type StateUpdate struct {
	PreferredLanguage *entities.Language
	CurrentChallenge  *entities.Challenge
	ClearChallenge    bool
	LastChallengeDate *string
	Score             *int
	Streak            *int
}

// Apply merges the update into s.
func (u StateUpdate) Apply(s *entities.UserState) {
	if u.PreferredLanguage != nil {
		s.PreferredLanguage = *u.PreferredLanguage
	}
	if u.ClearChallenge {
		s.CurrentChallenge = nil
	}
	if u.CurrentChallenge != nil {
		s.CurrentChallenge = u.CurrentChallenge.Clone()
	}
	if u.LastChallengeDate != nil {
		s.LastChallengeDate = *u.LastChallengeDate
	}
	if u.Score != nil {
		s.Score = *u.Score
	}
	if u.Streak != nil {
		s.Streak = *u.Streak
	}
}

// StateStore keeps user states in memory. Values handed out are copies.
type StateStore struct {
	mu     sync.RWMutex
	states map[string]*entities.UserState
	locks  *KeyedMutex
}

// NewStateStore creates an empty StateStore.
func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[string]*entities.UserState),
		locks:  NewKeyedMutex(),
	}
}

// Get returns the user's state, creating the default one on first access.
func (s *StateStore) Get(_ context.Context, userID string) (*entities.UserState, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	s.mu.RLock()
	st, ok := s.states[userID]
	s.mu.RUnlock()
	if ok {
		return st.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(userID).Clone(), nil
}

// Set merges the update into the stored state and returns the new value.
func (s *StateStore) Set(ctx context.Context, userID string, update StateUpdate) (*entities.UserState, error) {
	return s.Update(ctx, userID, func(st *entities.UserState) error {
		update.Apply(st)
		return nil
	})
}

// Update runs fn on a copy of the user's state and stores the result. The
// whole read-modify-write holds the user's lock; if fn fails nothing is written.
func (s *StateStore) Update(_ context.Context, userID string, fn func(*entities.UserState) error) (*entities.UserState, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	s.mu.Lock()
	working := s.loadLocked(userID).Clone()
	s.mu.Unlock()

	if err := fn(working); err != nil {
		return nil, err
	}
	working.UserID = userID

	s.mu.Lock()
	s.states[userID] = working
	s.mu.Unlock()

	return working.Clone(), nil
}

// Len returns the number of known users.
func (s *StateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *StateStore) loadLocked(userID string) *entities.UserState {
	st, ok := s.states[userID]
	if !ok {
		st = entities.NewUserState(userID)
		s.states[userID] = st
	}
	return st
}
