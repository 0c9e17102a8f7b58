package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// DeliveryStatus is the per-user outcome of a distribution run.
type DeliveryStatus string

const (
	DeliverySent             DeliveryStatus = "sent"
	DeliverySkipped          DeliveryStatus = "skipped"
	DeliveryGenerationFailed DeliveryStatus = "generation_failed"
	DeliveryFailed           DeliveryStatus = "delivery_failed"
	DeliveryError            DeliveryStatus = "failed"
)

var ErrNoNotifier = errors.New("no notifier configured")

// DeliveryOutcome records what happened to one user in a run.
type DeliveryOutcome struct {
	UserID      string            `json:"userId"`
	Status      DeliveryStatus    `json:"status"`
	ChallengeID string            `json:"challengeId,omitempty"`
	Language    entities.Language `json:"language,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// TriggerReport summarises a distribution run.
type TriggerReport struct {
	TimeOfDay     entities.TimeOfDay `json:"timeOfDay"`
	AffectedUsers int                `json:"affectedUsers"`
	Sent          int                `json:"sent"`
	Skipped       int                `json:"skipped"`
	Failed        int                `json:"failed"`
	Outcomes      []DeliveryOutcome  `json:"outcomes"`
}

// NextRun is the upcoming scheduled slot.
type NextRun struct {
	Type entities.TimeOfDay `json:"type"`
	Time time.Time          `json:"time"`
}

// SchedulerStatus describes the scheduler for the admin surface.
type SchedulerStatus struct {
	Active          bool                    `json:"active"`
	RegisteredUsers int                     `json:"registeredUsers"`
	Schedule        []entities.ScheduleSlot `json:"schedule"`
	Timezone        string                  `json:"timezone"`
	NextRun         NextRun                 `json:"nextRun"`
}

// SchedulerService pushes challenges to the roster twice a day.
type SchedulerService struct {
	roster        Roster
	challenges    ChallengeAssigner
	logger        *zap.Logger
	schedule      []entities.ScheduleSlot
	maxConcurrent int
	now           func() time.Time

	mu       sync.RWMutex
	notifier Notifier
	running  bool
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(
	roster Roster,
	challenges ChallengeAssigner,
	notifier Notifier,
	logger *zap.Logger,
	opts ...Option,
) *SchedulerService {
	cfg := newSettings(opts)

	return &SchedulerService{
		roster:        roster,
		challenges:    challenges,
		notifier:      notifier,
		logger:        logger,
		schedule:      cfg.schedule,
		maxConcurrent: cfg.maxConcurrent,
		now:           cfg.now,
	}
}

// SetNotifier sets the notifier (called after the delivery channels are built).
func (s *SchedulerService) SetNotifier(notifier Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = notifier
}

func (s *SchedulerService) currentNotifier() Notifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifier
}

// Start registers one cron job per schedule slot and blocks until ctx is done.
func (s *SchedulerService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	for _, slot := range s.schedule {
		tod := slot.TimeOfDay
		_, err := c.AddFunc(slot.Spec, func() {
			s.logger.Info("cron triggered: distributing challenges", zap.String("time_of_day", string(tod)))
			if _, err := s.Trigger(ctx, tod); err != nil {
				s.logger.Error("failed to distribute challenges",
					zap.String("time_of_day", string(tod)),
					zap.Error(err),
				)
			}
		})
		if err != nil {
			return fmt.Errorf("add cron job %q: %w", slot.Spec, err)
		}
	}

	c.Start()
	s.setRunning(true)
	s.logger.Info("cron scheduler started", zap.Int("jobs", len(s.schedule)))

	<-ctx.Done()

	<-c.Stop().Done()
	s.setRunning(false)
	s.logger.Info("scheduler stopped")

	return nil
}

func (s *SchedulerService) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
}

// Trigger runs a distribution for tod and summarises it.
func (s *SchedulerService) Trigger(ctx context.Context, tod entities.TimeOfDay) (*TriggerReport, error) {
	outcomes, err := s.Distribute(ctx, tod)
	if err != nil {
		return nil, err
	}

	report := &TriggerReport{
		TimeOfDay:     tod,
		AffectedUsers: len(outcomes),
		Outcomes:      outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case DeliverySent:
			report.Sent++
		case DeliverySkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	s.logger.Info("challenge distribution complete",
		zap.String("time_of_day", string(tod)),
		zap.Int("users", report.AffectedUsers),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

// Distribute gives every registered user today's challenge and delivers it.
// Users are processed concurrently and independently; one user's failure is
// recorded in its outcome and never affects the others.
func (s *SchedulerService) Distribute(ctx context.Context, tod entities.TimeOfDay) ([]DeliveryOutcome, error) {
	users, err := s.roster.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	if len(users) == 0 {
		s.logger.Info("no users registered for scheduled challenges")
		return []DeliveryOutcome{}, nil
	}

	outcomes := make([]DeliveryOutcome, len(users))

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)

	for i, userID := range users {
		g.Go(func() error {
			outcomes[i] = s.deliver(ctx, userID, tod)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, nil
}

// deliver processes a single user.
func (s *SchedulerService) deliver(ctx context.Context, userID string, tod entities.TimeOfDay) (out DeliveryOutcome) {
	out.UserID = userID

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled delivery panicked", zap.String("user_id", userID), zap.Any("panic", r))
			out.Status = DeliveryError
			out.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	ch, generated, err := s.challenges.EnsureTodayChallenge(ctx, userID)
	if err != nil {
		out.Status = DeliveryError
		if errors.Is(err, ErrGenerationFailed) {
			out.Status = DeliveryGenerationFailed
		}
		out.Error = err.Error()
		s.logger.Error("failed to prepare scheduled challenge", zap.String("user_id", userID), zap.Error(err))
		return out
	}

	out.ChallengeID = ch.ID
	out.Language = ch.Language

	if !generated {
		out.Status = DeliverySkipped
		s.logger.Debug("user already has today's challenge", zap.String("user_id", userID))
		return out
	}

	notifier := s.currentNotifier()
	if notifier == nil {
		out.Status = DeliveryFailed
		out.Error = ErrNoNotifier.Error()
		s.logger.Error("failed to deliver scheduled challenge", zap.String("user_id", userID), zap.Error(ErrNoNotifier))
		return out
	}

	if err := notifier.Send(ctx, userID, FormatScheduledMessage(tod, ch)); err != nil {
		out.Status = DeliveryFailed
		out.Error = err.Error()
		s.logger.Error("failed to deliver scheduled challenge", zap.String("user_id", userID), zap.Error(err))
		return out
	}

	out.Status = DeliverySent
	s.logger.Info("scheduled challenge sent",
		zap.String("user_id", userID),
		zap.String("time_of_day", string(tod)),
		zap.String("language", string(ch.Language)),
	)
	return out
}

// Status reports roster size, the fixed schedule and the next run.
func (s *SchedulerService) Status(ctx context.Context) (*SchedulerStatus, error) {
	n, err := s.roster.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count roster: %w", err)
	}

	slot, at := entities.NextRun(s.schedule, s.now())

	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()

	return &SchedulerStatus{
		Active:          running,
		RegisteredUsers: n,
		Schedule:        s.schedule,
		Timezone:        "UTC",
		NextRun:         NextRun{Type: slot.TimeOfDay, Time: at},
	}, nil
}
