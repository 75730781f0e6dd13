package domain

import "github.com/google/uuid"

// Delivery is one message handed to the message-delivery provider.
type Delivery struct {
	UserID    uuid.UUID   `json:"user_id"`
	Channel   Channel     `json:"channel"`
	Recipient string      `json:"recipient"`
	Type      InsightType `json:"type"`
	Priority  Priority    `json:"priority"`
	Title     string      `json:"title"`
	Body      string      `json:"body"`
	ActionURL string      `json:"action_url,omitempty"`
}
