package challengegen

import (
	"context"
	"fmt"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
)

var staticBank = map[entities.Language]entities.ChallengeContent{
	entities.LanguagePython: {
		Title:    "Say Hello",
		Question: "What single line prints Hello in Python?",
		Answer:   "print('Hello')",
		Hints:    []string{"It is a built-in function.", "The function name means output to the console.", "print(...)"},
	},
	entities.LanguageJavaScript: {
		Title:    "Console Greeting",
		Question: "What single line logs Hello to the console in JavaScript?",
		Answer:   "console.log('Hello')",
		Hints:    []string{"Browsers and Node share a global object for this.", "The object is called console.", "console.log(...)"},
	},
	entities.LanguageTypeScript: {
		Title:    "Typed Number",
		Question: "How do you declare a constant n of type number equal to 5 in TypeScript?",
		Answer:   "const n: number = 5",
		Hints:    []string{"The type follows the name.", "A colon separates name and type.", "const n: ..."},
	},
	entities.LanguageJava: {
		Title:    "Java Printing",
		Question: "What statement prints Hello followed by a newline in Java?",
		Answer:   `System.out.println("Hello");`,
		Hints:    []string{"It lives on the System class.", "Use the standard output stream.", "System.out...."},
	},
	entities.LanguageCPP: {
		Title:    "Stream It Out",
		Question: "What object do you stream text into to print it in C++?",
		Answer:   "std::cout",
		Hints:    []string{"It is declared in <iostream>.", "It lives in the std namespace.", "c-out"},
	},
	entities.LanguageCSharp: {
		Title:    "Console Line",
		Question: "What method call prints Hello on its own line in C#?",
		Answer:   `Console.WriteLine("Hello");`,
		Hints:    []string{"It is a static method on Console.", "It writes a whole line.", "Console.Write..."},
	},
	entities.LanguageGo: {
		Title:    "Empty Slice",
		Question: "How do you declare an empty slice of ints named s in Go with a short declaration?",
		Answer:   "s := []int{}",
		Hints:    []string{"Use the := operator.", "A composite literal with no elements.", "s := []int..."},
	},
	entities.LanguageRust: {
		Title:    "Mutable Binding",
		Question: "What keyword makes a let binding mutable in Rust?",
		Answer:   "mut",
		Hints:    []string{"Bindings are immutable by default.", "It is a three letter keyword.", "let ___ x = 5;"},
	},
}

// StaticGenerator serves a fixed challenge per language. It needs no network.
type StaticGenerator struct{}

// NewStatic creates a StaticGenerator.
func NewStatic() *StaticGenerator {
	return &StaticGenerator{}
}

// Generate returns the bank entry for lang.
func (StaticGenerator) Generate(ctx context.Context, lang entities.Language) (*entities.ChallengeContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, ok := staticBank[lang]
	if !ok {
		return nil, fmt.Errorf("generate challenge: %w: %q", entities.ErrUnknownLanguage, lang)
	}

	hints := make([]string, len(content.Hints))
	copy(hints, content.Hints)
	content.Hints = hints

	return &content, nil
}
