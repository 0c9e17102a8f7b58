package storage

import (
	"context"
	"slices"
	"sync"
)

// Roster is the in-memory set of users opted into scheduled challenges.
type Roster struct {
	mu    sync.RWMutex
	users map[string]struct{}
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{
		users: make(map[string]struct{}),
	}
}

// Add registers a user. Adding twice is a no-op.
func (r *Roster) Add(_ context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = struct{}{}
	return nil
}

// Remove unregisters a user.
func (r *Roster) Remove(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

// List returns registered users in lexical order.
func (r *Roster) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.users))
	for id := range r.users {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}

// Count returns the number of registered users.
func (r *Roster) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

// Contains reports whether the user is registered.
func (r *Roster) Contains(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok, nil
}
