package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by this package.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Dispatcher interface {
	Handle(ctx context.Context, userID, text string) conversation.Reply
}

type RosterService interface {
	Register(ctx context.Context, userID string) ([]entities.ScheduleSlot, error)
	Unregister(ctx context.Context, userID string) error
}
