package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

func newTestEngine(t *testing.T, gen *stubGenerator, opts ...Option) (*ChallengeService, *storage.StateStore, *fakeClock) {
	t.Helper()

	store := storage.NewStateStore()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)

	return NewChallengeService(store, gen, zap.NewNop(), opts...), store, clock
}

func TestStartChallenge_FreshUser(t *testing.T) {
	svc, store, clock := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	res := svc.StartChallenge(ctx, "alice", "python")
	require.Equal(t, StatusNewChallenge, res.Status, res.Error)
	require.NotNil(t, res.Challenge)
	assert.NotEmpty(t, res.Challenge.ID)
	assert.NotEmpty(t, res.Challenge.Title)
	assert.NotEmpty(t, res.Challenge.Question)
	assert.Equal(t, entities.LanguagePython, res.Challenge.Language)
	assert.Equal(t, 2, res.AttemptsLeft)

	st, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.DateKey(clock.Now()), st.LastChallengeDate)
	assert.Len(t, st.CurrentChallenge.Hints, 3)
	assert.Equal(t, clock.Now(), st.CurrentChallenge.CreatedAt)
}

func TestSubmitAnswer_CorrectThenAlreadySolved(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	require.Equal(t, StatusNewChallenge, svc.StartChallenge(ctx, "alice", "python").Status)

	res := svc.SubmitAnswer(ctx, "alice", "def")
	require.Equal(t, StatusCorrect, res.Status)
	assert.Equal(t, "def", res.CorrectAnswer)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 1, res.Streak)

	again := svc.SubmitAnswer(ctx, "alice", "def")
	assert.Equal(t, StatusAlreadySolved, again.Status)
	assert.Equal(t, 1, again.Score)
	assert.Equal(t, 1, again.Streak)

	st, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Score)
	assert.True(t, st.CurrentChallenge.Solved)
}

func TestSubmitAnswer_NormalisesCaseAndWhitespace(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	svc.StartChallenge(ctx, "u", "go")
	res := svc.SubmitAnswer(ctx, "u", "   DeF \n")
	assert.Equal(t, StatusCorrect, res.Status)
}

func TestSubmitAnswer_AttemptsAreBounded(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	svc.StartChallenge(ctx, "bob", "python")

	first := svc.SubmitAnswer(ctx, "bob", "lambda")
	require.Equal(t, StatusWrongWithAttempts, first.Status)
	assert.Equal(t, 1, first.AttemptsLeft)

	second := svc.SubmitAnswer(ctx, "bob", "function")
	require.Equal(t, StatusWrongNoAttempts, second.Status)
	assert.Equal(t, "def", second.CorrectAnswer)
	assert.Equal(t, 0, second.AttemptsLeft)

	third := svc.SubmitAnswer(ctx, "bob", "def")
	assert.Equal(t, StatusWrongNoAttempts, third.Status)

	st, err := store.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentChallenge.Attempts)
	assert.False(t, st.CurrentChallenge.Solved)
	assert.Zero(t, st.Score)
}

func TestSubmitAnswer_InvalidInputNeverTouchesStore(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})

	res := svc.SubmitAnswer(context.Background(), "carol", "  ")
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, ErrInvalidInput)
	assert.Zero(t, store.Len())
}

func TestSubmitAnswer_NoChallenge(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{})

	res := svc.SubmitAnswer(context.Background(), "dave", "def")
	assert.Equal(t, StatusNoChallenge, res.Status)
}

func TestSubmitAnswer_ConcurrentWrongAnswersAreCounted(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()
	svc.StartChallenge(ctx, "erin", "rust")

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.SubmitAnswer(ctx, "erin", "wrong")
		}()
	}
	wg.Wait()

	st, err := store.Get(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, 2, st.CurrentChallenge.Attempts)
}

func TestStartChallenge_SameDayReturnsExisting(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _ := newTestEngine(t, gen)
	ctx := context.Background()

	first := svc.StartChallenge(ctx, "alice", "python")
	require.Equal(t, StatusNewChallenge, first.Status)

	second := svc.StartChallenge(ctx, "alice", "python")
	require.Equal(t, StatusExistingChallenge, second.Status)
	assert.Equal(t, first.Challenge.ID, second.Challenge.ID)
	assert.Equal(t, 1, gen.Calls())
}

func TestStartChallenge_LanguageSwitchKeepsFreshChallenge(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	first := svc.StartChallenge(ctx, "alice", "python")
	second := svc.StartChallenge(ctx, "alice", "golang")

	require.Equal(t, StatusExistingChallenge, second.Status)
	assert.Equal(t, first.Challenge.ID, second.Challenge.ID)
	assert.Equal(t, entities.LanguagePython, second.Challenge.Language)

	st, err := store.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageGo, st.PreferredLanguage)
}

func TestStartChallenge_NewDayRegenerates(t *testing.T) {
	svc, _, clock := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	first := svc.StartChallenge(ctx, "alice", "python")
	clock.Advance(24 * time.Hour)

	assert.Equal(t, StatusNoChallenge, svc.CheckState(ctx, "alice").Status)

	second := svc.StartChallenge(ctx, "alice", "python")
	require.Equal(t, StatusNewChallenge, second.Status)
	assert.NotEqual(t, first.Challenge.ID, second.Challenge.ID)
}

func TestStartChallenge_GenerationFailureLeavesStateUntouched(t *testing.T) {
	gen := &stubGenerator{fail: map[entities.Language]error{entities.LanguageRust: errModelDown}}
	svc, store, _ := newTestEngine(t, gen)
	ctx := context.Background()

	res := svc.StartChallenge(ctx, "frank", "rust")
	require.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, ErrGenerationFailed)
	assert.ErrorIs(t, res.Err, errModelDown)
	assert.NotEmpty(t, res.Error)

	st, err := store.Get(ctx, "frank")
	require.NoError(t, err)
	assert.Nil(t, st.CurrentChallenge)
	assert.Empty(t, st.LastChallengeDate)
	assert.Equal(t, entities.DefaultLanguage, st.PreferredLanguage)
}

func TestStartChallenge_GeneratorPanicBecomesError(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{panic: true})

	res := svc.StartChallenge(context.Background(), "gina", "java")
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, ErrGenerationFailed)
}

func TestStartChallenge_GenerationTimeout(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{block: true}, WithGenerationTimeout(20*time.Millisecond))

	res := svc.StartChallenge(context.Background(), "hank", "cpp")
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

func TestStartChallenge_InvalidLanguage(t *testing.T) {
	gen := &stubGenerator{}
	svc, store, _ := newTestEngine(t, gen)

	for _, lang := range []string{"", "cobol"} {
		res := svc.StartChallenge(context.Background(), "ivy", lang)
		assert.Equal(t, StatusError, res.Status, lang)
		assert.ErrorIs(t, res.Err, ErrInvalidInput, lang)
	}
	assert.Zero(t, gen.Calls())
	assert.Zero(t, store.Len())
}

func TestCheckState(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	assert.Equal(t, StatusNoChallenge, svc.CheckState(ctx, "jo").Status)

	svc.StartChallenge(ctx, "jo", "typescript")
	svc.SubmitAnswer(ctx, "jo", "nope")

	active := svc.CheckState(ctx, "jo")
	require.Equal(t, StatusActive, active.Status)
	assert.Equal(t, 1, active.AttemptsUsed)
	assert.Equal(t, 1, active.AttemptsLeft)
	assert.Equal(t, entities.LanguageTypeScript, active.Challenge.Language)

	svc.SubmitAnswer(ctx, "jo", "def")
	solved := svc.CheckState(ctx, "jo")
	assert.Equal(t, StatusSolved, solved.Status)
	assert.Equal(t, 1, solved.Score)
	assert.Equal(t, 1, solved.Streak)
}

func TestGetHint(t *testing.T) {
	svc, store, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	assert.Equal(t, StatusNoChallenge, svc.GetHint(ctx, "kim").Status)

	svc.StartChallenge(ctx, "kim", "python")
	h := svc.GetHint(ctx, "kim")
	require.Equal(t, StatusHint, h.Status)
	assert.Equal(t, "It is short.", h.Hint)
	assert.Equal(t, 2, h.AttemptsLeft)

	svc.SubmitAnswer(ctx, "kim", "x")
	svc.SubmitAnswer(ctx, "kim", "y")
	assert.Equal(t, "d _ f", svc.GetHint(ctx, "kim").Hint)

	// Attempts far beyond the hint count still resolve to the last hint.
	_, err := store.Update(ctx, "kim", func(st *entities.UserState) error {
		st.CurrentChallenge.Attempts = 50
		return nil
	})
	require.NoError(t, err)
	h = svc.GetHint(ctx, "kim")
	assert.Equal(t, "d _ f", h.Hint)
	assert.Equal(t, 0, h.AttemptsLeft)
}

func TestGetHint_AlreadySolved(t *testing.T) {
	svc, _, _ := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	svc.StartChallenge(ctx, "lee", "python")
	svc.SubmitAnswer(ctx, "lee", "def")

	assert.Equal(t, StatusAlreadySolved, svc.GetHint(ctx, "lee").Status)
}

func TestNeedsNewChallenge(t *testing.T) {
	svc, _, clock := newTestEngine(t, &stubGenerator{})
	ctx := context.Background()

	needs, err := svc.NeedsNewChallenge(ctx, "max")
	require.NoError(t, err)
	assert.True(t, needs)

	svc.StartChallenge(ctx, "max", "python")
	needs, err = svc.NeedsNewChallenge(ctx, "max")
	require.NoError(t, err)
	assert.False(t, needs)

	clock.Advance(24 * time.Hour)
	needs, err = svc.NeedsNewChallenge(ctx, "max")
	require.NoError(t, err)
	assert.True(t, needs)
}

func TestEnsureTodayChallenge_IsIdempotent(t *testing.T) {
	gen := &stubGenerator{}
	svc, _, _ := newTestEngine(t, gen)
	ctx := context.Background()

	first, generated, err := svc.EnsureTodayChallenge(ctx, "nora")
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Equal(t, entities.DefaultLanguage, first.Language)

	second, generated, err := svc.EnsureTodayChallenge(ctx, "nora")
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, gen.Calls())
}
