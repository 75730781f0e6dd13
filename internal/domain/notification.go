package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Channel is a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelChat  Channel = "chat"
)

// AllChannels lists channels in evaluation order.
var AllChannels = []Channel{ChannelEmail, ChannelPush, ChannelChat}

func (c Channel) String() string { return string(c) }

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelPush, ChannelChat:
		return true
	}
	return false
}

// Frequency is how often a channel may deliver.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// ChannelPreference configures a single channel.
type ChannelPreference struct {
	Enabled       bool      `json:"enabled"`
	Frequency     Frequency `json:"frequency"`
	PreferredTime string    `json:"preferred_time"`
}

// PreferredClock parses PreferredTime ("HH:MM") into hour and minute.
func (p ChannelPreference) PreferredClock() (hour, minute int, err error) {
	return ParseClock(p.PreferredTime)
}

// ParseClock parses a 24h "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Categories gates which insight types may be sent.
type Categories struct {
	Reminders      bool `json:"reminders"`
	Insights       bool `json:"insights"`
	Encouragements bool `json:"encouragements"`
	Warnings       bool `json:"warnings"`
}

// Allows reports whether an insight of the given type may be delivered.
func (c Categories) Allows(t InsightType) bool {
	switch t {
	case InsightPattern:
		return c.Warnings
	case InsightImprovement, InsightEncouragement:
		return c.Encouragements
	case InsightTip:
		return c.Insights
	case InsightReminder:
		return c.Reminders
	}
	return false
}

// AllowsDigest reports whether a generic periodic digest may stand in for a missing insight.
func (c Categories) AllowsDigest() bool {
	return c.Reminders || c.Encouragements
}

// Any reports whether at least one category is enabled.
func (c Categories) Any() bool {
	return c.Reminders || c.Insights || c.Encouragements || c.Warnings
}

// NotificationPreference holds one user's notification settings.
type NotificationPreference struct {
	UserID     uuid.UUID
	Email      ChannelPreference
	Push       ChannelPreference
	Chat       ChannelPreference
	Categories Categories
	Timezone   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Channel returns the settings for ch. Unknown channels come back disabled.
func (p NotificationPreference) Channel(ch Channel) ChannelPreference {
	switch ch {
	case ChannelEmail:
		return p.Email
	case ChannelPush:
		return p.Push
	case ChannelChat:
		return p.Chat
	}
	return ChannelPreference{}
}

// SetChannel replaces the settings for ch.
func (p *NotificationPreference) SetChannel(ch Channel, cp ChannelPreference) {
	switch ch {
	case ChannelEmail:
		p.Email = cp
	case ChannelPush:
		p.Push = cp
	case ChannelChat:
		p.Chat = cp
	}
}

// DefaultNotificationPreference is created lazily on first access:
// daily email at 09:00 in UTC, other channels off, every category on.
func DefaultNotificationPreference(userID uuid.UUID) NotificationPreference {
	return NotificationPreference{
		UserID: userID,
		Email:  ChannelPreference{Enabled: true, Frequency: FrequencyDaily, PreferredTime: "09:00"},
		Push:   ChannelPreference{Enabled: false, Frequency: FrequencyDaily, PreferredTime: "09:00"},
		Chat:   ChannelPreference{Enabled: false, Frequency: FrequencyWeekly, PreferredTime: "09:00"},
		Categories: Categories{
			Reminders:      true,
			Insights:       true,
			Encouragements: true,
			Warnings:       true,
		},
		Timezone: "UTC",
	}
}

// DeliveryStatus is the recorded outcome of a delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// NotificationHistoryEntry is an immutable record of one delivery attempt.
type NotificationHistoryEntry struct {
	ID      uuid.UUID
	UserID  uuid.UUID
	Channel Channel
	Type    InsightType
	Title   string
	Message string
	Status  DeliveryStatus
	SentAt  time.Time
}
