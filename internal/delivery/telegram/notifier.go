package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/delivery/notify"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier delivers scheduled challenges to Telegram chats.
type Notifier struct {
	bot    messageSender
	logger *zap.Logger
}

func NewNotifier(bot messageSender, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, logger: logger}
}

// Send delivers message to the chat behind userID. User ids from other
// channels are reported as notify.ErrNotAddressable.
func (n *Notifier) Send(_ context.Context, userID, message string) error {
	chatID, err := ChatID(userID)
	if err != nil {
		return fmt.Errorf("%w: %w", notify.ErrNotAddressable, err)
	}

	if _, err := n.bot.Send(newMessage(chatID, formatText(message))); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("telegram message sent", zap.Int64("chat_id", chatID))
	return nil
}
