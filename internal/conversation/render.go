package conversation

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
)

const (
	comeBackText = "New challenge tomorrow at 8 AM or 6 PM!"
	fallbackText = "❌ Something went wrong. Please try again."
)

// LanguagePrompt asks the user to pick a language.
func LanguagePrompt() string {
	names := make([]string, len(entities.Languages))
	for i, l := range entities.Languages {
		names[i] = l.DisplayName()
	}
	return "Select a programming language?\n\n" + strings.Join(names, " | ")
}

// Render turns an engine result into the reply text.
func Render(res service.Result) string {
	switch res.Status {
	case service.StatusNoChallenge:
		return "You don't have an active challenge. Request a new one by saying a programming language (e.g., \"python\", \"javascript\")."

	case service.StatusActive:
		return fmt.Sprintf("You have an active %s challenge waiting for your answer.\n\n**%s**\n%s\n\nAttempts used: %d/%d",
			languageName(res.Challenge), res.Challenge.Title, res.Challenge.Question, res.AttemptsUsed, entities.MaxAttempts)

	case service.StatusSolved, service.StatusAlreadySolved:
		return fmt.Sprintf("You already solved today's challenge! ✅\n\n📊 Score: %d | Streak: %d 🔥\n\nCome back tomorrow at 8 AM or 6 PM for a new challenge.",
			res.Score, res.Streak)

	case service.StatusNewChallenge:
		return fmt.Sprintf("🎯 %s Challenge\n\n**%s**\n%s\n\n📊 Score: %d | Streak: %d 🔥\n\nSubmit your answer (%d attempts)",
			languageName(res.Challenge), res.Challenge.Title, res.Challenge.Question, res.Score, res.Streak, entities.MaxAttempts)

	case service.StatusExistingChallenge:
		return fmt.Sprintf("You already have an active %s challenge.\n\n**%s**\n%s\n\nAttempts left: %d\n\nSubmit your answer!",
			languageName(res.Challenge), res.Challenge.Title, res.Challenge.Question, res.AttemptsLeft)

	case service.StatusCorrect:
		return fmt.Sprintf("✅ Correct!\n\nAnswer: %s\n📊 Score: %d | Streak: %d 🔥\n\n%s",
			res.CorrectAnswer, res.Score, res.Streak, comeBackText)

	case service.StatusWrongWithAttempts:
		return fmt.Sprintf("❌ Incorrect.\n\nAttempts left: %d\nWant a hint? Say \"hint\"", res.AttemptsLeft)

	case service.StatusWrongNoAttempts:
		return fmt.Sprintf("❌ Out of attempts. Correct answer:\n\n✅ %s\n\n%s", res.CorrectAnswer, comeBackText)

	case service.StatusHint:
		return fmt.Sprintf("💡 Hint: %s\n\nAttempts left: %d\n\nTry again!", res.Hint, res.AttemptsLeft)

	case service.StatusError:
		if res.Error != "" {
			return "❌ " + res.Error
		}
	}

	return fallbackText
}

func languageName(c *service.ChallengeSummary) string {
	if c == nil {
		return ""
	}
	return c.Language.DisplayName()
}
