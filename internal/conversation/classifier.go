package conversation

import (
	"strings"
	"unicode"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

// IntentKind is what a free-text message asks for.
type IntentKind string

const (
	IntentEmpty    IntentKind = "empty"
	IntentHint     IntentKind = "hint"
	IntentLanguage IntentKind = "language"
	IntentAnswer   IntentKind = "answer"
)

var hintWords = map[string]struct{}{
	"hint":  {},
	"hints": {},
	"help":  {},
	"clue":  {},
}

// maxHintWords bounds a hint request; longer messages are answers that
// happen to mention a hint word.
const maxHintWords = 6

// codeSymbols never appear in a plain request but are common in answers.
const codeSymbols = "()[]{};=<>\"'`"

// Intent is the classified message. Language is set for IntentLanguage.
type Intent struct {
	Kind     IntentKind
	Language entities.Language
	Text     string
}

// Classify maps free text to an intent. A short request with a hint word
// wins over language names. Anything that looks like code is an answer.
func Classify(text string) Intent {
	text = strings.TrimSpace(text)
	if text == "" {
		return Intent{Kind: IntentEmpty}
	}

	if strings.ContainsAny(text, codeSymbols) {
		return Intent{Kind: IntentAnswer, Text: text}
	}

	words := tokenize(text)
	if len(words) <= maxHintWords && hasHintWord(words) {
		return Intent{Kind: IntentHint, Text: text}
	}

	if lang, ok := mentionedLanguage(words); ok {
		return Intent{Kind: IntentLanguage, Language: lang, Text: text}
	}

	return Intent{Kind: IntentAnswer, Text: text}
}

func hasHintWord(words []string) bool {
	for _, w := range words {
		if _, ok := hintWords[w]; ok {
			return true
		}
	}
	return false
}

// mentionedLanguage returns the first supported language among words.
func mentionedLanguage(words []string) (entities.Language, bool) {
	for _, w := range words {
		if lang, err := entities.ParseLanguage(w); err == nil {
			return lang, true
		}
	}
	return "", false
}

// tokenize lowercases text and splits it into words. '+' and '#' stay part
// of a word so that c++ and c# survive.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}
