package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContent() ChallengeContent {
	return ChallengeContent{
		Title:    "Printing",
		Question: "How do you print hello?",
		Answer:   "print('hello')",
		Hints:    []string{"h0", "h1", "h2"},
	}
}

func TestChallengeContent_Validate(t *testing.T) {
	ok := sampleContent()
	require.NoError(t, ok.Validate())

	twoHints := sampleContent()
	twoHints.Hints = twoHints.Hints[:2]
	require.NoError(t, twoHints.Validate())

	cases := map[string]func(c *ChallengeContent){
		"no title":    func(c *ChallengeContent) { c.Title = "" },
		"no question": func(c *ChallengeContent) { c.Question = " " },
		"no answer":   func(c *ChallengeContent) { c.Answer = "" },
		"one hint":    func(c *ChallengeContent) { c.Hints = []string{"x"} },
		"four hints":  func(c *ChallengeContent) { c.Hints = []string{"a", "b", "c", "d"} },
		"blank hint":  func(c *ChallengeContent) { c.Hints = []string{"a", ""} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := sampleContent()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidChallenge)
		})
	}
}

func TestChallenge_Matches(t *testing.T) {
	c := NewChallenge("c1", LanguagePython, sampleContent(), time.Now())

	tests := []struct {
		answer string
		want   bool
	}{
		{"print('hello')", true},
		{"  PRINT('HELLO')  ", true},
		{"print", true},                       // contained in the correct answer
		{"I think print('hello') works", true}, // contains the correct answer
		{"echo hello", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Matches(tt.answer), "answer %q", tt.answer)
	}

	empty := &Challenge{}
	assert.True(t, empty.Matches(" "))
	assert.False(t, empty.Matches("x"))
}

func TestChallenge_HintIndexAndAttempts(t *testing.T) {
	c := NewChallenge("c1", LanguageGo, sampleContent(), time.Now())

	assert.Equal(t, "h0", c.Hint())
	assert.Equal(t, 2, c.AttemptsLeft())
	assert.False(t, c.Exhausted())

	c.Attempts = 1
	assert.Equal(t, "h1", c.Hint())
	assert.Equal(t, 1, c.AttemptsLeft())

	c.Attempts = 2
	assert.Equal(t, "h2", c.Hint())
	assert.Equal(t, 0, c.AttemptsLeft())
	assert.True(t, c.Exhausted())

	c.Attempts = 5
	c.Hints = c.Hints[:2]
	assert.Equal(t, "h1", c.Hint())
	assert.Equal(t, 0, c.AttemptsLeft())

	c.Solved = true
	assert.False(t, c.Exhausted())

	c.Hints = nil
	assert.Equal(t, "", c.Hint())
	assert.Equal(t, 0, c.HintIndex())
}

func TestChallenge_CloneIsDeep(t *testing.T) {
	c := NewChallenge("c1", LanguageGo, sampleContent(), time.Now())
	cp := c.Clone()
	cp.Hints[0] = "changed"
	cp.Attempts = 2

	assert.Equal(t, "h0", c.Hints[0])
	assert.Equal(t, 0, c.Attempts)
	assert.Nil(t, (*Challenge)(nil).Clone())
}
