package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_Recipient(t *testing.T) {
	t.Parallel()

	push := "expo-token-1"
	chat := "chat-42"
	full := User{ID: uuid.New(), Email: "a@example.com", PushToken: &push, ChatID: &chat}
	emailOnly := User{ID: uuid.New(), Email: "b@example.com"}

	tests := []struct {
		name string
		user User
		ch   Channel
		want string
	}{
		{"email", full, ChannelEmail, "a@example.com"},
		{"push", full, ChannelPush, "expo-token-1"},
		{"chat", full, ChannelChat, "chat-42"},
		{"push missing", emailOnly, ChannelPush, ""},
		{"chat missing", emailOnly, ChannelChat, ""},
		{"unknown channel", full, Channel("sms"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.user.Recipient(tt.ch); got != tt.want {
				t.Errorf("Recipient(%s) = %q, want %q", tt.ch, got, tt.want)
			}
		})
	}
}
