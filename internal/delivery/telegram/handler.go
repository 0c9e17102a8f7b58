package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Commands are advertised in the Telegram client menu.
var Commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "hint", Description: "Get a hint for today's challenge"},
	{Command: "subscribe", Description: "Receive challenges at 8:00 and 18:00 UTC"},
	{Command: "unsubscribe", Description: "Stop scheduled challenges"},
	{Command: "help", Description: "Help"},
}

type Handler struct {
	bot        BotAPI
	logger     *zap.Logger
	dispatcher Dispatcher
	roster     RosterService
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	dispatcher Dispatcher,
	roster RosterService,
) *Handler {
	return &Handler{
		bot:        bot,
		logger:     logger,
		dispatcher: dispatcher,
		roster:     roster,
	}
}

// RegisterCommands publishes the command menu.
func (h *Handler) RegisterCommands() error {
	if _, err := h.bot.Request(tgbotapi.NewSetMyCommands(Commands...)); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	return nil
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		h.logger.Debug("update without message")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.send(newMessage(chatID, md(msgWelcome)))

		case "help":
			h.send(newMessage(chatID, md(msgHelp)))

		case "hint":
			h.handle(ctx, chatID, "hint", h.textHandler("hint"))

		case "subscribe":
			h.handle(ctx, chatID, "subscribe", h.subscribeHandler())

		case "unsubscribe":
			h.handle(ctx, chatID, "unsubscribe", h.unsubscribeHandler())

		default:
			h.send(newMessage(chatID, md(msgUnknownCommand)))
		}

		return
	}

	h.handle(ctx, chatID, "text", h.textHandler(update.Message.Text))
}

// textHandler routes free text through the conversation dispatcher.
func (h *Handler) textHandler(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		reply := h.dispatcher.Handle(ctx, UserID(chatID), text)
		h.send(newMessage(chatID, formatText(reply.Text)))
		return nil
	}
}

func (h *Handler) subscribeHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		schedule, err := h.roster.Register(ctx, UserID(chatID))
		if err != nil {
			return err
		}
		h.send(newMessage(chatID, buildSubscribedMessage(schedule)))
		return nil
	}
}

func (h *Handler) unsubscribeHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.roster.Unregister(ctx, UserID(chatID)); err != nil {
			return err
		}
		h.send(newMessage(chatID, md(msgUnsubscribed)))
		return nil
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newMessage(chatID, md(err))
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
