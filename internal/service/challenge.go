package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

// errNoWrite aborts a store update that only needed to read.
var errNoWrite = errors.New("no write")

// ChallengeService is the challenge lifecycle engine. Every public operation
// returns a Result and never an error or a panic.
type ChallengeService struct {
	store     StateStore
	generator ChallengeGenerator
	locks     *storage.KeyedMutex
	logger    *zap.Logger
	now       func() time.Time
	timeout   time.Duration
	newID     func() string
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(
	store StateStore,
	generator ChallengeGenerator,
	logger *zap.Logger,
	opts ...Option,
) *ChallengeService {
	cfg := newSettings(opts)

	return &ChallengeService{
		store:     store,
		generator: generator,
		locks:     storage.NewKeyedMutex(),
		logger:    logger,
		now:       cfg.now,
		timeout:   cfg.generationTimeout,
		newID:     uuid.NewString,
	}
}

func (s *ChallengeService) today() string {
	return entities.DateKey(s.now())
}

// NeedsNewChallenge reports whether the user's current challenge is stale.
func (s *ChallengeService) NeedsNewChallenge(ctx context.Context, userID string) (bool, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user state: %w", err)
	}
	return st.NeedsNewChallenge(s.today()), nil
}

// CheckState reports where the user is in today's challenge. It never mutates state.
func (s *ChallengeService) CheckState(ctx context.Context, userID string) (res Result) {
	defer s.recoverResult("check_state", userID, &res)

	if strings.TrimSpace(userID) == "" {
		return errorResult(userID, ErrInvalidInput, "Could not check state")
	}

	st, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user state", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Could not check state")
	}

	cur := st.CurrentChallenge
	switch {
	case cur == nil || st.LastChallengeDate != s.today():
		return Result{Status: StatusNoChallenge, UserID: userID}
	case cur.Solved:
		return withProgress(Result{Status: StatusSolved, UserID: userID}, st)
	default:
		return withProgress(Result{
			Status:       StatusActive,
			UserID:       userID,
			Challenge:    summarize(cur),
			AttemptsUsed: cur.Attempts,
			AttemptsLeft: cur.AttemptsLeft(),
		}, st)
	}
}

// StartChallenge sets the preferred language and returns today's challenge,
// generating one when the current challenge is stale.
func (s *ChallengeService) StartChallenge(ctx context.Context, userID, language string) (res Result) {
	defer s.recoverResult("start_challenge", userID, &res)

	if strings.TrimSpace(language) == "" {
		return errorResult(userID, ErrInvalidInput, "Please specify a programming language.")
	}
	lang, err := entities.ParseLanguage(language)
	if err != nil {
		return errorResult(userID, fmt.Errorf("%w: %w", ErrInvalidInput, err), unsupportedLanguageMessage(language))
	}
	if strings.TrimSpace(userID) == "" {
		return errorResult(userID, ErrInvalidInput, "Something went wrong generating the challenge. Please try again.")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	st, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user state", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Something went wrong generating the challenge. Please try again.")
	}

	today := s.today()
	if !st.NeedsNewChallenge(today) {
		return s.keepChallenge(ctx, userID, lang)
	}

	ch, err := s.newChallenge(ctx, lang)
	if err != nil {
		s.logger.Error("failed to generate challenge",
			zap.String("user_id", userID),
			zap.String("language", string(lang)),
			zap.Error(err),
		)
		return errorResult(userID, err, "Something went wrong generating the challenge. Please try again.")
	}

	var status Status
	st, err = s.store.Update(ctx, userID, func(st *entities.UserState) error {
		st.PreferredLanguage = lang
		if !st.NeedsNewChallenge(today) {
			status = StatusExistingChallenge
			return nil
		}
		st.CurrentChallenge = ch
		st.LastChallengeDate = today
		status = StatusNewChallenge
		return nil
	})
	if err != nil {
		s.logger.Error("failed to store challenge", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Something went wrong generating the challenge. Please try again.")
	}

	if status == StatusNewChallenge {
		s.logger.Info("challenge assigned",
			zap.String("user_id", userID),
			zap.String("challenge_id", ch.ID),
			zap.String("language", string(lang)),
		)
	}

	cur := st.CurrentChallenge
	return withProgress(Result{
		Status:       status,
		UserID:       userID,
		Challenge:    summarize(cur),
		AttemptsUsed: cur.Attempts,
		AttemptsLeft: cur.AttemptsLeft(),
	}, st)
}

// keepChallenge records the language switch and returns the still-fresh challenge.
func (s *ChallengeService) keepChallenge(ctx context.Context, userID string, lang entities.Language) Result {
	st, err := s.store.Update(ctx, userID, func(st *entities.UserState) error {
		st.PreferredLanguage = lang
		return nil
	})
	if err != nil {
		s.logger.Error("failed to set preferred language", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Something went wrong generating the challenge. Please try again.")
	}

	cur := st.CurrentChallenge
	if cur.Solved {
		return withProgress(Result{Status: StatusAlreadySolved, UserID: userID}, st)
	}

	return withProgress(Result{
		Status:       StatusExistingChallenge,
		UserID:       userID,
		Challenge:    summarize(cur),
		AttemptsUsed: cur.Attempts,
		AttemptsLeft: cur.AttemptsLeft(),
	}, st)
}

// SubmitAnswer checks an answer against the current challenge and applies
// the attempt or solve transition.
func (s *ChallengeService) SubmitAnswer(ctx context.Context, userID, answer string) (res Result) {
	defer s.recoverResult("submit_answer", userID, &res)

	if strings.TrimSpace(answer) == "" {
		return errorResult(userID, ErrInvalidInput, "Please provide an answer.")
	}
	if strings.TrimSpace(userID) == "" {
		return errorResult(userID, ErrInvalidInput, "Something went wrong processing your answer. Please try again.")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	_, err := s.store.Update(ctx, userID, func(st *entities.UserState) error {
		cur := st.CurrentChallenge
		switch {
		case cur == nil:
			res = Result{Status: StatusNoChallenge, UserID: userID}
			return errNoWrite
		case cur.Solved:
			res = withProgress(Result{Status: StatusAlreadySolved, UserID: userID}, st)
			return errNoWrite
		case cur.Exhausted():
			res = withProgress(Result{
				Status:        StatusWrongNoAttempts,
				UserID:        userID,
				AttemptsUsed:  cur.Attempts,
				CorrectAnswer: cur.CorrectAnswer,
			}, st)
			return errNoWrite
		}

		if cur.Matches(answer) {
			cur.Solved = true
			st.Score++
			st.Streak++
			res = withProgress(Result{
				Status:        StatusCorrect,
				UserID:        userID,
				AttemptsUsed:  cur.Attempts,
				AttemptsLeft:  cur.AttemptsLeft(),
				CorrectAnswer: cur.CorrectAnswer,
			}, st)
			return nil
		}

		cur.Attempts++
		if cur.Attempts < entities.MaxAttempts {
			res = withProgress(Result{
				Status:       StatusWrongWithAttempts,
				UserID:       userID,
				AttemptsUsed: cur.Attempts,
				AttemptsLeft: cur.AttemptsLeft(),
			}, st)
			return nil
		}

		res = withProgress(Result{
			Status:        StatusWrongNoAttempts,
			UserID:        userID,
			AttemptsUsed:  cur.Attempts,
			CorrectAnswer: cur.CorrectAnswer,
		}, st)
		return nil
	})
	if err != nil && !errors.Is(err, errNoWrite) {
		s.logger.Error("failed to submit answer", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Something went wrong processing your answer. Please try again.")
	}

	if res.Status == StatusCorrect {
		s.logger.Info("challenge solved",
			zap.String("user_id", userID),
			zap.Int("score", res.Score),
			zap.Int("streak", res.Streak),
		)
	}

	return res
}

// GetHint returns the hint matching the attempts used so far.
func (s *ChallengeService) GetHint(ctx context.Context, userID string) (res Result) {
	defer s.recoverResult("get_hint", userID, &res)

	if strings.TrimSpace(userID) == "" {
		return errorResult(userID, ErrInvalidInput, "Could not get hint. Please try again.")
	}

	st, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user state", zap.String("user_id", userID), zap.Error(err))
		return errorResult(userID, err, "Could not get hint. Please try again.")
	}

	cur := st.CurrentChallenge
	switch {
	case cur == nil:
		return Result{Status: StatusNoChallenge, UserID: userID}
	case cur.Solved:
		return withProgress(Result{Status: StatusAlreadySolved, UserID: userID}, st)
	}

	return withProgress(Result{
		Status:       StatusHint,
		UserID:       userID,
		Challenge:    summarize(cur),
		AttemptsUsed: cur.Attempts,
		AttemptsLeft: cur.AttemptsLeft(),
		Hint:         cur.Hint(),
	}, st)
}

// EnsureTodayChallenge assigns a fresh challenge in the preferred language
// when the current one is stale. It reports whether a challenge was generated.
func (s *ChallengeService) EnsureTodayChallenge(ctx context.Context, userID string) (*entities.Challenge, bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("get user state: %w", err)
	}

	today := s.today()
	if !st.NeedsNewChallenge(today) {
		return st.CurrentChallenge, false, nil
	}

	ch, err := s.newChallenge(ctx, st.PreferredLanguage)
	if err != nil {
		return nil, false, err
	}

	generated := false
	st, err = s.store.Update(ctx, userID, func(st *entities.UserState) error {
		if !st.NeedsNewChallenge(today) {
			return nil
		}
		st.CurrentChallenge = ch
		st.LastChallengeDate = today
		generated = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("store challenge: %w", err)
	}

	return st.CurrentChallenge, generated, nil
}

// newChallenge runs the generator under the configured timeout. Failures,
// including panics, are wrapped in ErrGenerationFailed.
func (s *ChallengeService) newChallenge(ctx context.Context, lang entities.Language) (ch *entities.Challenge, err error) {
	if !lang.Valid() {
		lang = entities.DefaultLanguage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			ch = nil
			err = fmt.Errorf("%w: generator panic: %v", ErrGenerationFailed, r)
		}
	}()

	content, err := s.generator.Generate(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: empty content", ErrGenerationFailed)
	}
	if err := content.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return entities.NewChallenge(s.newID(), lang, *content, s.now().UTC()), nil
}

func (s *ChallengeService) recoverResult(op, userID string, res *Result) {
	r := recover()
	if r == nil {
		return
	}
	s.logger.Error("challenge operation panicked",
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.Any("panic", r),
	)
	*res = errorResult(userID, fmt.Errorf("%w: %v", ErrInternal, r), "Something went wrong. Please try again.")
}

func unsupportedLanguageMessage(language string) string {
	names := make([]string, len(entities.Languages))
	for i, l := range entities.Languages {
		names[i] = string(l)
	}
	return fmt.Sprintf("Unsupported language %q. Choose one of: %s.", language, strings.Join(names, ", "))
}
