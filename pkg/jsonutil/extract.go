// Package jsonutil pulls JSON payloads out of free-form model output.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a response carries no parseable JSON value.
var ErrNoJSON = errors.New("no valid JSON found in response")

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// Extract returns the first JSON object or array embedded in text. Markdown code
// fences are unwrapped first; otherwise the first balanced {...} or [...] wins.
func Extract(text string) (string, error) {
	cleaned := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(cleaned); len(m) == 2 {
		cleaned = strings.TrimSpace(m[1])
	}

	objStart := strings.IndexByte(cleaned, '{')
	arrStart := strings.IndexByte(cleaned, '[')

	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if candidate, ok := balanced(cleaned[objStart:], '{', '}'); ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	if arrStart >= 0 {
		if candidate, ok := balanced(cleaned[arrStart:], '[', ']'); ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}
	return "", ErrNoJSON
}

// Decode extracts JSON from text and unmarshals it into T.
func Decode[T any](text string) (T, error) {
	var out T
	raw, err := Extract(text)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return out, nil
}

// balanced expects s to start with open and returns the span up to its matching close.
func balanced(s string, open, close byte) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
