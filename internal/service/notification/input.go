package notification

import (
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChannelPatch changes a single channel. Nil fields are left as they are.
type ChannelPatch struct {
	Enabled       *bool
	Frequency     *domain.Frequency
	PreferredTime *string
}

// CategoriesPatch changes category toggles. Nil fields are left as they are.
type CategoriesPatch struct {
	Reminders      *bool
	Insights       *bool
	Encouragements *bool
	Warnings       *bool
}

// UpdatePreferencesInput holds a partial preference update.
type UpdatePreferencesInput struct {
	Email      *ChannelPatch
	Push       *ChannelPatch
	Chat       *ChannelPatch
	Categories *CategoriesPatch
	Timezone   *string
}

// Validate validates the update preferences input.
func (i UpdatePreferencesInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateChannelPatch("email", i.Email)...)
	errs = append(errs, validateChannelPatch("push", i.Push)...)
	errs = append(errs, validateChannelPatch("chat", i.Chat)...)

	if i.Timezone != nil {
		if *i.Timezone == "" {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "required"})
		} else if _, err := time.LoadLocation(*i.Timezone); err != nil {
			errs = append(errs, domain.FieldError{Field: "timezone", Message: "unknown time zone"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateChannelPatch(prefix string, p *ChannelPatch) []domain.FieldError {
	if p == nil {
		return nil
	}
	var errs []domain.FieldError
	if p.Frequency != nil && !p.Frequency.IsValid() {
		errs = append(errs, domain.FieldError{Field: prefix + ".frequency", Message: "must be daily, weekly or monthly"})
	}
	if p.PreferredTime != nil {
		if _, _, err := domain.ParseClock(*p.PreferredTime); err != nil {
			errs = append(errs, domain.FieldError{Field: prefix + ".preferred_time", Message: "must be HH:MM"})
		}
	}
	return errs
}

// apply merges the patch into current.
func (i UpdatePreferencesInput) apply(current domain.NotificationPreference) domain.NotificationPreference {
	result := current

	patches := []struct {
		ch    domain.Channel
		patch *ChannelPatch
	}{
		{domain.ChannelEmail, i.Email},
		{domain.ChannelPush, i.Push},
		{domain.ChannelChat, i.Chat},
	}
	for _, p := range patches {
		if p.patch == nil {
			continue
		}
		cp := result.Channel(p.ch)
		if p.patch.Enabled != nil {
			cp.Enabled = *p.patch.Enabled
		}
		if p.patch.Frequency != nil {
			cp.Frequency = *p.patch.Frequency
		}
		if p.patch.PreferredTime != nil {
			cp.PreferredTime = *p.patch.PreferredTime
		}
		result.SetChannel(p.ch, cp)
	}

	if c := i.Categories; c != nil {
		if c.Reminders != nil {
			result.Categories.Reminders = *c.Reminders
		}
		if c.Insights != nil {
			result.Categories.Insights = *c.Insights
		}
		if c.Encouragements != nil {
			result.Categories.Encouragements = *c.Encouragements
		}
		if c.Warnings != nil {
			result.Categories.Warnings = *c.Warnings
		}
	}

	if i.Timezone != nil {
		result.Timezone = *i.Timezone
	}

	return result
}

// clampHistoryLimit normalizes a caller-supplied page size.
func clampHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultHistoryLimit
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}
