// Package llm - parse.go is the validation boundary for untrusted model output.
package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty model response")

// ParseError reports model output that could not be turned into the expected shape.
type ParseError struct {
	Raw     string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	raw := e.Raw
	if len([]rune(raw)) > 120 {
		raw = string([]rune(raw)[:120]) + "..."
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (raw: %q)", e.Message, e.Cause, raw)
	}
	return fmt.Sprintf("%s (raw: %q)", e.Message, raw)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ParseJSON cleans raw model output and decodes it into T.
func ParseJSON[T any](raw string) (T, error) {
	var out T
	cleaned := CleanJSONBlock(raw)
	if cleaned == "" {
		return out, &ParseError{Raw: raw, Message: "no JSON in response", Cause: ErrEmptyResponse}
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return out, &ParseError{Raw: raw, Message: "invalid JSON", Cause: err}
	}
	return out, nil
}

// ParseBool accepts only the exact token "true" or "false", ignoring
// surrounding whitespace. Anything else is an error.
func ParseBool(raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ParseError{Raw: raw, Message: "expected true or false"}
}

// ParseScore accepts a bare integer in [0,100].
func ParseScore(raw string) (int, error) {
	token := normalizeToken(raw)
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &ParseError{Raw: raw, Message: "expected integer score", Cause: err}
	}
	if n < 0 || n > 100 {
		return 0, &ParseError{Raw: raw, Message: fmt.Sprintf("score %d out of range 0-100", n)}
	}
	return n, nil
}

func normalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	token = strings.Trim(token, "\"'`")
	token = strings.TrimSuffix(token, ".")
	return strings.ToLower(strings.TrimSpace(token))
}
