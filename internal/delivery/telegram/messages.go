// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

const (
	msgWelcome = "👋 Hi! I'm DevChallenge Bot.\n\n" +
		"Every day I give you one short coding challenge. You get 2 attempts and progressive hints.\n\n" +
		"Name a language to start: Python, JavaScript, TypeScript, Java, C++, C#, Go or Rust.\n" +
		"Use /subscribe to get a challenge at 8:00 and 18:00 UTC."
	msgHelp = "How it works:\n\n" +
		"• Say a language (e.g. \"python\") to get today's challenge\n" +
		"• Reply with your answer, you have 2 attempts\n" +
		"• Say \"hint\" or use /hint when you are stuck\n\n" +
		"/subscribe to receive scheduled challenges\n" +
		"/unsubscribe to stop them"
	msgUnsubscribed   = "🔕 You will no longer receive scheduled challenges."
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Available commands:\n\n/start, /help, /hint, /subscribe, /unsubscribe"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// formatText escapes reply text for MarkdownV2 and turns **x** into bold.
func formatText(text string) string {
	parts := strings.Split(text, "**")
	// An unmatched marker leaves the last segment as plain text.
	paired := len(parts)%2 == 1

	var sb strings.Builder
	for i, p := range parts {
		if i%2 == 1 && (paired || i < len(parts)-1) {
			sb.WriteString(bold(p))
			continue
		}
		if i%2 == 1 {
			sb.WriteString(md("**"))
		}
		sb.WriteString(md(p))
	}
	return sb.String()
}

func buildSubscribedMessage(schedule []entities.ScheduleSlot) string {
	var sb strings.Builder
	sb.WriteString(md("🔔 You are subscribed to daily challenges!"))
	sb.WriteString("\n\n")
	for _, slot := range schedule {
		sb.WriteString(md(fmt.Sprintf("• %s: ", slot.TimeOfDay)))
		sb.WriteString(bold(slot.Label))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
