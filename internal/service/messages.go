package service

import (
	"fmt"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// FormatScheduledMessage renders the proactive morning or evening push.
func FormatScheduledMessage(tod entities.TimeOfDay, ch *entities.Challenge) string {
	return fmt.Sprintf("%s 🎯\n\nYour daily %s challenge is ready:\n\n**%s**\n%s\n\nSubmit your answer (you have %d attempts)",
		tod.Greeting(),
		ch.Language.DisplayName(),
		ch.Title,
		ch.Question,
		entities.MaxAttempts,
	)
}
