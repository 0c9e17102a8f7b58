package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		kind IntentKind
		lang entities.Language
	}{
		{"", IntentEmpty, ""},
		{"   ", IntentEmpty, ""},
		{"hint", IntentHint, ""},
		{"Can I get a HINT please?", IntentHint, ""},
		{"help", IntentHint, ""},
		{"any clue?", IntentHint, ""},
		{"python", IntentLanguage, entities.LanguagePython},
		{"I want a JavaScript challenge", IntentLanguage, entities.LanguageJavaScript},
		{"c++ please", IntentLanguage, entities.LanguageCPP},
		{"C#", IntentLanguage, entities.LanguageCSharp},
		{"golang!", IntentLanguage, entities.LanguageGo},
		{"help me with rust", IntentHint, ""},
		{"print('hello')", IntentAnswer, ""},
		{"[]", IntentAnswer, ""},
		{`print("help")`, IntentAnswer, ""},
		{`console.log("hint")`, IntentAnswer, ""},
		{"def help(): return 42", IntentAnswer, ""},
		{`fmt.Println("python")`, IntentAnswer, ""},
		{"i think the clue is that the list must be reversed first", IntentAnswer, ""},
	}

	for _, tt := range tests {
		got := Classify(tt.text)
		assert.Equal(t, tt.kind, got.Kind, "text %q", tt.text)
		assert.Equal(t, tt.lang, got.Language, "text %q", tt.text)
	}
}
