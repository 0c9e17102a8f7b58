package conversation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/challengegen"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
	"github.com/aliskhannn/devchallenge-bot/internal/storage"
)

func newTestDispatcher() *Dispatcher {
	engine := service.NewChallengeService(storage.NewStateStore(), challengegen.NewStatic(), zap.NewNop())
	return NewDispatcher(engine, zap.NewNop())
}

func tools(r Reply) []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Tool
	}
	return out
}

func TestDispatcher_Conversation(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	greet := d.Handle(ctx, "alice", "hi there")
	assert.Equal(t, []string{ToolCheckState}, tools(greet))
	assert.Equal(t, LanguagePrompt(), greet.Text)

	start := d.Handle(ctx, "alice", "python please")
	require.Equal(t, []string{ToolCheckState, ToolGetDailyChallenge}, tools(start))
	assert.Equal(t, service.StatusNewChallenge, start.Calls[1].Result.Status)
	assert.Contains(t, start.Text, "🎯 Python Challenge")
	assert.Contains(t, start.Text, "Say Hello")

	// During an active challenge a language name is an answer attempt.
	wrong := d.Handle(ctx, "alice", "javascript")
	require.Equal(t, []string{ToolCheckState, ToolSubmitAnswer}, tools(wrong))
	assert.Equal(t, service.StatusWrongWithAttempts, wrong.Calls[1].Result.Status)
	assert.Contains(t, wrong.Text, "Attempts left: 1")

	hint := d.Handle(ctx, "alice", "hint")
	require.Equal(t, []string{ToolCheckState, ToolGetHint}, tools(hint))
	assert.Contains(t, hint.Text, "💡 Hint: The function name means output to the console.")

	correct := d.Handle(ctx, "alice", "print('hello')")
	require.Equal(t, service.StatusCorrect, correct.Calls[1].Result.Status)
	assert.Contains(t, correct.Text, "📊 Score: 1 | Streak: 1")

	done := d.Handle(ctx, "alice", "rust")
	assert.Equal(t, []string{ToolCheckState}, tools(done))
	assert.Equal(t, service.StatusSolved, done.Calls[0].Result.Status)
	assert.Contains(t, done.Text, "Come back tomorrow")
	assert.False(t, done.Failed())
}

func TestDispatcher_OutOfAttempts(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	d.Handle(ctx, "bob", "go")
	d.Handle(ctx, "bob", "var s []string")
	last := d.Handle(ctx, "bob", "make([]int)")

	assert.Equal(t, service.StatusWrongNoAttempts, last.Calls[1].Result.Status)
	assert.Contains(t, last.Text, "✅ s := []int{}")
}

func TestDispatcher_EmptyMessageShowsActiveChallenge(t *testing.T) {
	d := newTestDispatcher()
	ctx := context.Background()

	d.Handle(ctx, "cy", "rust")
	r := d.Handle(ctx, "cy", "  ")

	assert.Equal(t, []string{ToolCheckState}, tools(r))
	assert.Contains(t, r.Text, "Attempts used: 0/2")
}

func TestDispatcher_EngineErrorIsRendered(t *testing.T) {
	d := newTestDispatcher()

	r := d.Handle(context.Background(), "", "python")
	assert.True(t, r.Failed())
	assert.Contains(t, r.Text, "❌")
}

func TestRender_EveryStatusHasText(t *testing.T) {
	summary := &service.ChallengeSummary{Title: "T", Question: "Q", Language: "go"}
	statuses := []service.Status{
		service.StatusNoChallenge, service.StatusActive, service.StatusSolved,
		service.StatusNewChallenge, service.StatusExistingChallenge, service.StatusAlreadySolved,
		service.StatusCorrect, service.StatusWrongWithAttempts, service.StatusWrongNoAttempts,
		service.StatusHint, service.StatusError,
	}
	for _, st := range statuses {
		text := Render(service.Result{Status: st, Challenge: summary, Error: "oops"})
		assert.NotEmpty(t, text, st)
	}
	assert.Equal(t, fallbackText, Render(service.Result{Status: "weird"}))
}
