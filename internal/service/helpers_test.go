package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubGenerator returns deterministic content and can be told to fail per language.
type stubGenerator struct {
	mu    sync.Mutex
	calls int
	fail  map[entities.Language]error
	panic bool
	block bool
}

var errModelDown = errors.New("model down")

func (g *stubGenerator) Generate(ctx context.Context, lang entities.Language) (*entities.ChallengeContent, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	err := g.fail[lang]
	g.mu.Unlock()

	if g.panic {
		panic("generator exploded")
	}
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	return &entities.ChallengeContent{
		Title:    fmt.Sprintf("%s challenge %d", lang, n),
		Question: "What keyword defines a function?",
		Answer:   "def",
		Hints:    []string{"It is short.", "Three letters.", "d _ f"},
	}, nil
}

func (g *stubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type sentMessage struct {
	userID  string
	message string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[string]error
}

func (n *recordingNotifier) Send(_ context.Context, userID, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[userID]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentMessage{userID: userID, message: message})
	return nil
}

func (n *recordingNotifier) Sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}
