// Package provider defines the language-model provider contract shared by the
// execution engine and the provider adapters.
package provider

import (
	"errors"
	"fmt"
	"strings"
)

// Role of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion request.
type Request struct {
	System           string
	Messages         []Message
	Model            string // empty selects the adapter default
	MaxOutputTokens  int64  // 0 selects the adapter default
	Temperature      *float64
	StructuredOutput bool // response must contain one JSON object
}

// Completion is the provider's answer. Only Units is consumed for billing.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Units returns the usage units charged by the provider.
func (c Completion) Units() int64 {
	return c.InputTokens + c.OutputTokens
}

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response")

// ErrMalformedJSON is returned when structured output was requested but the
// model's text holds no valid JSON object.
var ErrMalformedJSON = errors.New("malformed json response")

// ExtractJSON returns the substring between the first '{' and the last '}'.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedJSON)
	}
	return s[start : end+1], nil
}
