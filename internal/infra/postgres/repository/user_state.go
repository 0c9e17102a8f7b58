package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/infra/postgres"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// UserStateRepository persists user states in the user_states table.
type UserStateRepository struct {
	db postgres.DBTX
	tx Transactor
}

// NewUserStateRepository creates a new UserStateRepository.
func NewUserStateRepository(db postgres.DBTX, tx Transactor) *UserStateRepository {
	return &UserStateRepository{db: db, tx: tx}
}

const ensureStateQuery = `
	INSERT INTO user_states (user_id, preferred_language)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO NOTHING
`

const selectStateQuery = `
	SELECT user_id, preferred_language, current_challenge, last_challenge_date, score, streak
	FROM user_states
	WHERE user_id = $1
`

// Get returns the user's state, inserting the default row on first access.
func (r *UserStateRepository) Get(ctx context.Context, userID string) (*entities.UserState, error) {
	if userID == "" {
		return nil, storage.ErrEmptyUserID
	}

	if _, err := r.db.Exec(ctx, ensureStateQuery, userID, entities.DefaultLanguage); err != nil {
		return nil, fmt.Errorf("ensure user state: %w", err)
	}

	return scanState(r.db.QueryRow(ctx, selectStateQuery, userID))
}

// Update locks the user's row, applies fn and writes the result back. When
// fn fails the transaction is rolled back and fn's error is returned.
func (r *UserStateRepository) Update(
	ctx context.Context,
	userID string,
	fn func(*entities.UserState) error,
) (*entities.UserState, error) {
	if userID == "" {
		return nil, storage.ErrEmptyUserID
	}

	var updated *entities.UserState
	err := r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, ensureStateQuery, userID, entities.DefaultLanguage); err != nil {
			return fmt.Errorf("ensure user state: %w", err)
		}

		st, err := scanState(tx.QueryRow(ctx, selectStateQuery+" FOR UPDATE", userID))
		if err != nil {
			return err
		}

		if err := fn(st); err != nil {
			return err
		}

		if err := writeState(ctx, tx, st); err != nil {
			return err
		}

		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Set merges a partial update into the stored state.
func (r *UserStateRepository) Set(ctx context.Context, userID string, update storage.StateUpdate) (*entities.UserState, error) {
	return r.Update(ctx, userID, func(st *entities.UserState) error {
		update.Apply(st)
		return nil
	})
}

func writeState(ctx context.Context, db postgres.DBTX, st *entities.UserState) error {
	query := `
		UPDATE user_states SET
			preferred_language = $2,
			current_challenge = $3,
			last_challenge_date = $4,
			score = $5,
			streak = $6,
			updated_at = now()
		WHERE user_id = $1
	`

	var challenge []byte
	if st.CurrentChallenge != nil {
		b, err := json.Marshal(st.CurrentChallenge)
		if err != nil {
			return fmt.Errorf("marshal challenge: %w", err)
		}
		challenge = b
	}

	_, err := db.Exec(ctx, query,
		st.UserID,
		st.PreferredLanguage,
		challenge,
		st.LastChallengeDate,
		st.Score,
		st.Streak,
	)
	if err != nil {
		return fmt.Errorf("update user state: %w", err)
	}

	return nil
}

func scanState(row pgx.Row) (*entities.UserState, error) {
	var (
		st        entities.UserState
		lang      string
		challenge []byte
	)

	err := row.Scan(&st.UserID, &lang, &challenge, &st.LastChallengeDate, &st.Score, &st.Streak)
	if err != nil {
		return nil, fmt.Errorf("get user state: %w", err)
	}
	st.PreferredLanguage = entities.Language(lang)

	if len(challenge) > 0 {
		var ch entities.Challenge
		if err := json.Unmarshal(challenge, &ch); err != nil {
			return nil, fmt.Errorf("unmarshal challenge: %w", err)
		}
		st.CurrentChallenge = &ch
	}

	return &st, nil
}
