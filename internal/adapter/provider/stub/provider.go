// Package stub is an offline language-model provider for development.
package stub

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

// Provider answers every request deterministically without a network call.
// Usage units are derived from the text length (roughly 4 characters per token).
type Provider struct{}

// New creates a stub provider.
func New() *Provider { return &Provider{} }

// Complete echoes the last user message.
func (p *Provider) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prompt string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == provider.RoleUser {
			prompt = req.Messages[i].Content
			break
		}
	}

	text := "Noted: " + strings.TrimSpace(prompt)
	if req.StructuredOutput {
		text = fmt.Sprintf(`{"summary":%q}`, strings.TrimSpace(prompt))
	}

	input := int64(len(req.System)+len(prompt))/4 + 1
	return &provider.Completion{
		Text:         text,
		Model:        "stub",
		InputTokens:  input,
		OutputTokens: int64(len(text))/4 + 1,
	}, nil
}
