package aiexec

import (
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

const (
	maxMessages       = 50
	maxMessageLength  = 32_000
	maxOutputTokenCap = 8192
)

// Options tune a single provider call.
type Options struct {
	Model            string
	MaxOutputTokens  int64
	Temperature      *float64
	StructuredOutput bool
	Locale           string
}

// ExecuteInput is the feature-facing request.
type ExecuteInput struct {
	UserID     uuid.UUID
	ActionType domain.ActionType
	System     string
	Messages   []provider.Message
	Options    Options
	Metadata   map[string]any
}

// Validate checks all fields and collects all errors.
func (i ExecuteInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if !i.ActionType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action_type", Message: "unknown action type"})
	}

	switch {
	case len(i.Messages) == 0:
		errs = append(errs, domain.FieldError{Field: "messages", Message: "required"})
	case len(i.Messages) > maxMessages:
		errs = append(errs, domain.FieldError{Field: "messages", Message: "max 50 messages"})
	default:
		for _, m := range i.Messages {
			if m.Role != provider.RoleUser && m.Role != provider.RoleAssistant {
				errs = append(errs, domain.FieldError{Field: "messages.role", Message: "must be user or assistant"})
				break
			}
			if strings.TrimSpace(m.Content) == "" {
				errs = append(errs, domain.FieldError{Field: "messages.content", Message: "required"})
				break
			}
			if len(m.Content) > maxMessageLength {
				errs = append(errs, domain.FieldError{Field: "messages.content", Message: "max 32000 characters"})
				break
			}
		}
		if i.Messages[len(i.Messages)-1].Role != provider.RoleUser {
			errs = append(errs, domain.FieldError{Field: "messages", Message: "last message must be from the user"})
		}
	}

	if i.Options.MaxOutputTokens < 0 || i.Options.MaxOutputTokens > maxOutputTokenCap {
		errs = append(errs, domain.FieldError{Field: "options.max_output_tokens", Message: "must be between 0 and 8192"})
	}
	if t := i.Options.Temperature; t != nil && (*t < 0 || *t > 1) {
		errs = append(errs, domain.FieldError{Field: "options.temperature", Message: "must be between 0 and 1"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
