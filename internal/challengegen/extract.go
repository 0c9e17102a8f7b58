package challengegen

import (
	"errors"
	"strings"
)

var ErrMalformedOutput = errors.New("malformed generator output")

// ExtractPayload pulls the JSON object out of raw model output. It accepts a
// bare object, a ```json fenced block, any fenced block, or an object
// embedded in prose.
func ExtractPayload(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrMalformedOutput
	}

	if body, ok := fencedBlock(s); ok {
		s = body
	}

	obj, ok := firstObject(s)
	if !ok {
		return "", ErrMalformedOutput
	}
	return obj, nil
}

// fencedBlock returns the contents of the first ``` fence, preferring ```json.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```json")
	skip := len("```json")
	if start == -1 {
		start = strings.Index(s, "```")
		skip = len("```")
	}
	if start == -1 {
		return "", false
	}

	rest := s[start+skip:]
	// Drop an optional language tag on the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl != -1 && !strings.Contains(rest[:nl], "{") {
		rest = rest[nl+1:]
	}

	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}

// firstObject returns the first balanced {...} object, honouring strings and escapes.
func firstObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inStr := false
	escaped := false
	for i := start; i < len(s); i++ {
		b := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch b {
		case '\\':
			if inStr {
				escaped = true
			}
		case '"':
			inStr = !inStr
		case '{':
			if !inStr {
				depth++
			}
		case '}':
			if !inStr {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
