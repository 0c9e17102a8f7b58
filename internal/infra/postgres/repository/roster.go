package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/devchallenge-bot/internal/infra/postgres"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

// RosterRepository stores scheduled users in the scheduled_users table.
type RosterRepository struct {
	db postgres.DBTX
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(db postgres.DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

// Add registers a user. Registering twice is a no-op.
func (r *RosterRepository) Add(ctx context.Context, userID string) error {
	if userID == "" {
		return storage.ErrEmptyUserID
	}

	query := `
		INSERT INTO scheduled_users (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("add scheduled user: %w", err)
	}

	return nil
}

// Remove unregisters a user.
func (r *RosterRepository) Remove(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM scheduled_users WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("remove scheduled user: %w", err)
	}

	return nil
}

// List returns registered user ids in ascending order.
func (r *RosterRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, "SELECT user_id FROM scheduled_users ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list scheduled users: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan scheduled users: %w", err)
	}

	return ids, nil
}

// Count returns the number of registered users.
func (r *RosterRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM scheduled_users").Scan(&n); err != nil {
		return 0, fmt.Errorf("count scheduled users: %w", err)
	}

	return n, nil
}

// Contains reports whether the user is registered.
func (r *RosterRepository) Contains(ctx context.Context, userID string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM scheduled_users WHERE user_id = $1)"

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check scheduled user: %w", err)
	}

	return exists, nil
}
