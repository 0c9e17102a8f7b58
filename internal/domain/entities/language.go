package entities

import (
	"errors"
	"strings"
)

var ErrUnknownLanguage = errors.New("unknown programming language")

// Language is a programming language a challenge can be generated for.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageJava       Language = "java"
	LanguageCPP        Language = "cpp"
	LanguageCSharp     Language = "csharp"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
)

// DefaultLanguage is assigned to users who never picked one.
const DefaultLanguage = LanguagePython

// Languages lists supported languages in display order.
var Languages = []Language{
	LanguagePython,
	LanguageJavaScript,
	LanguageTypeScript,
	LanguageJava,
	LanguageCPP,
	LanguageCSharp,
	LanguageGo,
	LanguageRust,
}

var languageAliases = map[string]Language{
	"python":     LanguagePython,
	"py":         LanguagePython,
	"python3":    LanguagePython,
	"javascript": LanguageJavaScript,
	"js":         LanguageJavaScript,
	"node":       LanguageJavaScript,
	"nodejs":     LanguageJavaScript,
	"typescript": LanguageTypeScript,
	"ts":         LanguageTypeScript,
	"java":       LanguageJava,
	"cpp":        LanguageCPP,
	"c++":        LanguageCPP,
	"cplusplus":  LanguageCPP,
	"csharp":     LanguageCSharp,
	"c#":         LanguageCSharp,
	"cs":         LanguageCSharp,
	"dotnet":     LanguageCSharp,
	"go":         LanguageGo,
	"golang":     LanguageGo,
	"rust":       LanguageRust,
	"rs":         LanguageRust,
}

var displayNames = map[Language]string{
	LanguagePython:     "Python",
	LanguageJavaScript: "JavaScript",
	LanguageTypeScript: "TypeScript",
	LanguageJava:       "Java",
	LanguageCPP:        "C++",
	LanguageCSharp:     "C#",
	LanguageGo:         "Go",
	LanguageRust:       "Rust",
}

// ParseLanguage resolves a language tag or a common alias, ignoring case.
func ParseLanguage(s string) (Language, error) {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lang, nil
	}
	return "", ErrUnknownLanguage
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	_, ok := displayNames[l]
	return ok
}

// DisplayName returns a human readable name, e.g. "C++" for cpp.
func (l Language) DisplayName() string {
	if name, ok := displayNames[l]; ok {
		return name
	}
	return string(l)
}
