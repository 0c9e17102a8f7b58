package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// RosterService manages opt-in to scheduled challenges.
type RosterService struct {
	roster   Roster
	schedule []entities.ScheduleSlot
	logger   *zap.Logger
}

// NewRosterService creates a new roster service.
func NewRosterService(roster Roster, logger *zap.Logger, opts ...Option) *RosterService {
	cfg := newSettings(opts)
	return &RosterService{
		roster:   roster,
		schedule: cfg.schedule,
		logger:   logger,
	}
}

// Register adds the user to the roster and returns the delivery schedule.
func (s *RosterService) Register(ctx context.Context, userID string) ([]entities.ScheduleSlot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("register user: %w: userId is required", ErrInvalidInput)
	}

	if err := s.roster.Add(ctx, userID); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("user registered for scheduled challenges", zap.String("user_id", userID))
	return s.schedule, nil
}

// Unregister removes the user from the roster.
func (s *RosterService) Unregister(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("unregister user: %w: userId is required", ErrInvalidInput)
	}

	if err := s.roster.Remove(ctx, userID); err != nil {
		return fmt.Errorf("unregister user: %w", err)
	}

	s.logger.Info("user unregistered from scheduled challenges", zap.String("user_id", userID))
	return nil
}

// IsRegistered reports whether the user receives scheduled challenges.
func (s *RosterService) IsRegistered(ctx context.Context, userID string) (bool, error) {
	ok, err := s.roster.Contains(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return ok, nil
}

func (s *RosterService) Count(ctx context.Context) (int, error) {
	n, err := s.roster.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *RosterService) List(ctx context.Context) ([]string, error) {
	ids, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}
