package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the account record the core needs: where to reach the user.
type User struct {
	ID        uuid.UUID
	Email     string
	PushToken *string
	ChatID    *string
	Locale    string
	CreatedAt time.Time
}

// Recipient returns the delivery address for the channel, or "" when the user
// has not registered one.
func (u User) Recipient(ch Channel) string {
	switch ch {
	case ChannelEmail:
		return u.Email
	case ChannelPush:
		if u.PushToken != nil {
			return *u.PushToken
		}
	case ChannelChat:
		if u.ChatID != nil {
			return *u.ChatID
		}
	}
	return ""
}
