package challengegen

import (
	"fmt"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

const systemPrompt = "You write short daily coding challenges for beginners. " +
	"You always answer with a single JSON object and nothing else."

// BuildPrompt returns the generation prompt for one challenge in lang.
func BuildPrompt(lang entities.Language) string {
	name := lang.DisplayName()

	return fmt.Sprintf(`Generate ONE simple, daily coding challenge for %[1]s.

CRITICAL REQUIREMENTS:
- Question must be SHORT (2-3 sentences max)
- Answer must be SHORT (1 line of code or single word/phrase)
- Hints must be SHORT (1 sentence each)
- Difficulty: EASY - a beginner should solve it in 1-2 minutes
- Focus on basic syntax, simple logic, or fundamental concepts
- NO complex algorithms, NO multiple steps

Examples of GOOD challenges:
- "What's the correct syntax to print 'Hello' in %[1]s?"
- "How do you create an empty list/array in %[1]s?"
- "What operator checks if two values are equal?"
- "What's the keyword to define a function in %[1]s?"

Return ONLY valid JSON in this EXACT format:
`+"```json"+`
{
  "title": "Short catchy title (max 5 words)",
  "question": "Clear, simple question that can be answered in one line",
  "answer": "The correct answer (one line of code or simple phrase)",
  "hints": [
    "First hint: gentle nudge",
    "Second hint: more specific",
    "Third hint: almost gives it away"
  ]
}
`+"```"+`

Generate the challenge now.`, name)
}
