package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
	"github.com/aliskhannn/devchallenge-bot/internal/delivery/notify"
	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

type fakeBot struct {
	sent    []tgbotapi.MessageConfig
	sendErr error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		b.sent = append(b.sent, msg)
	}
	return tgbotapi.Message{}, b.sendErr
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

type fakeDispatcher struct {
	userID string
	text   string
}

func (d *fakeDispatcher) Handle(_ context.Context, userID, text string) conversation.Reply {
	d.userID = userID
	d.text = text
	return conversation.Reply{Text: "**Say Hello**\nprint it!"}
}

type fakeRoster struct {
	registered map[string]bool
	err        error
}

func (r *fakeRoster) Register(_ context.Context, userID string) ([]entities.ScheduleSlot, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.registered[userID] = true
	return entities.DefaultSchedule, nil
}

func (r *fakeRoster) Unregister(_ context.Context, userID string) error {
	delete(r.registered, userID)
	return r.err
}

func command(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func text(chatID int64, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: s,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID},
	}}
}

func newTestHandler() (*Handler, *fakeBot, *fakeDispatcher, *fakeRoster) {
	bot := &fakeBot{}
	d := &fakeDispatcher{}
	r := &fakeRoster{registered: map[string]bool{}}
	return NewHandler(bot, zap.NewNop(), d, r), bot, d, r
}

func TestHandler_FreeTextGoesToDispatcher(t *testing.T) {
	h, bot, d, _ := newTestHandler()

	h.handleUpdate(context.Background(), text(42, "python"))

	assert.Equal(t, "tg:42", d.userID)
	assert.Equal(t, "python", d.text)
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, bot.sent[0].ParseMode)
	assert.Equal(t, "*Say Hello*\nprint it\\!", bot.sent[0].Text)
}

func TestHandler_HintCommand(t *testing.T) {
	h, _, d, _ := newTestHandler()

	h.handleUpdate(context.Background(), command(7, "/hint"))
	assert.Equal(t, "hint", d.text)
}

func TestHandler_SubscribeAndUnsubscribe(t *testing.T) {
	h, bot, _, r := newTestHandler()
	ctx := context.Background()

	h.handleUpdate(ctx, command(5, "/subscribe"))
	assert.True(t, r.registered["tg:5"])
	require.Len(t, bot.sent, 1)
	assert.Contains(t, bot.sent[0].Text, "8:00 AM UTC")

	h.handleUpdate(ctx, command(5, "/unsubscribe"))
	assert.False(t, r.registered["tg:5"])
}

func TestHandler_ErrorsAreReported(t *testing.T) {
	h, bot, _, r := newTestHandler()
	r.err = errors.New("db down")

	h.handleUpdate(context.Background(), command(9, "/subscribe"))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, md(msgInternalError), bot.sent[0].Text)
}

func TestHandler_PanicIsReported(t *testing.T) {
	h, bot, _, _ := newTestHandler()

	h.handle(context.Background(), 3, "text", func(context.Context, int64) error {
		panic("boom")
	})

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(3), bot.sent[0].ChatID)
	assert.Equal(t, md(msgInternalError), bot.sent[0].Text)
}

func TestHandler_UnknownCommand(t *testing.T) {
	h, bot, _, _ := newTestHandler()

	h.handleUpdate(context.Background(), command(1, "/nope"))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, md(msgUnknownCommand), bot.sent[0].Text)
}

func TestHandler_RunStopsOnCancel(t *testing.T) {
	h, _, _, _ := newTestHandler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Run(ctx), context.Canceled)
}

func TestNotifier(t *testing.T) {
	bot := &fakeBot{}
	n := NewNotifier(bot, zap.NewNop())

	require.NoError(t, n.Send(context.Background(), "tg:100", "Good morning! **Title**"))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(100), bot.sent[0].ChatID)
	assert.Equal(t, "Good morning\\! *Title*", bot.sent[0].Text)

	err := n.Send(context.Background(), "telex-user", "hi")
	assert.ErrorIs(t, err, notify.ErrNotAddressable)

	bot.sendErr = errors.New("blocked by user")
	assert.Error(t, n.Send(context.Background(), "tg:100", "hi"))
}

func TestFormatText_UnpairedMarker(t *testing.T) {
	assert.Equal(t, "a \\*\\*b", formatText("a **b"))
}

func TestUserIDRoundTrip(t *testing.T) {
	id, err := ChatID(UserID(-1001))
	require.NoError(t, err)
	assert.Equal(t, int64(-1001), id)

	_, err = ChatID("tg:abc")
	assert.ErrorIs(t, err, ErrNotTelegramUser)
}
