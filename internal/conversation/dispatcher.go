package conversation

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/service"
)

// Engine is the tool surface the dispatcher drives.
type Engine interface {
	CheckState(ctx context.Context, userID string) service.Result
	StartChallenge(ctx context.Context, userID, language string) service.Result
	SubmitAnswer(ctx context.Context, userID, answer string) service.Result
	GetHint(ctx context.Context, userID string) service.Result
}

// Tool names reported in replies.
const (
	ToolCheckState        = "checkState"
	ToolGetDailyChallenge = "getDailyChallenge"
	ToolSubmitAnswer      = "submitAnswer"
	ToolGetHint           = "getHint"
)

// ToolCall is one engine operation made while handling a message.
type ToolCall struct {
	Tool   string         `json:"toolName"`
	Result service.Result `json:"result"`
}

// Reply is the rendered answer to a message.
type Reply struct {
	Text  string     `json:"text"`
	Calls []ToolCall `json:"toolResults"`
}

// Failed reports whether the last engine call ended in an error.
func (r Reply) Failed() bool {
	if len(r.Calls) == 0 {
		return false
	}
	return r.Calls[len(r.Calls)-1].Result.IsError()
}

// Dispatcher routes free text to engine operations.
type Dispatcher struct {
	engine Engine
	logger *zap.Logger
}

// NewDispatcher creates a new dispatcher.
func NewDispatcher(engine Engine, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{engine: engine, logger: logger}
}

// Handle checks the user's state first and then picks the follow-up:
// an active challenge takes hints or answers, otherwise a named language
// starts a challenge and anything else gets the language prompt.
func (d *Dispatcher) Handle(ctx context.Context, userID, text string) Reply {
	intent := Classify(text)

	state := d.engine.CheckState(ctx, userID)
	reply := Reply{Calls: []ToolCall{{Tool: ToolCheckState, Result: state}}}

	d.logger.Debug("message classified",
		zap.String("user_id", userID),
		zap.String("intent", string(intent.Kind)),
		zap.String("state", string(state.Status)),
	)

	switch state.Status {
	case service.StatusError:
		reply.Text = Render(state)

	case service.StatusActive:
		switch intent.Kind {
		case IntentEmpty:
			reply.Text = Render(state)
		case IntentHint:
			reply.add(ToolGetHint, d.engine.GetHint(ctx, userID))
		default:
			reply.add(ToolSubmitAnswer, d.engine.SubmitAnswer(ctx, userID, intent.Text))
		}

	case service.StatusSolved:
		reply.Text = Render(state)

	default:
		if intent.Kind == IntentLanguage {
			reply.add(ToolGetDailyChallenge, d.engine.StartChallenge(ctx, userID, string(intent.Language)))
		} else {
			reply.Text = LanguagePrompt()
		}
	}

	return reply
}

func (r *Reply) add(tool string, res service.Result) {
	r.Calls = append(r.Calls, ToolCall{Tool: tool, Result: res})
	r.Text = Render(res)
}
