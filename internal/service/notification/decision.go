package notification

import (
	"fmt"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Skip reasons reported in the tick summary.
const (
	ReasonChannelDisabled   = "channel disabled"
	ReasonInvalidPreference = "invalid preference"
	ReasonOutsideHour       = "outside preferred hour"
	ReasonNotScheduledDay   = "not a scheduled day"
	ReasonRecentlySent      = "sent within resend interval"
	ReasonNoContent         = "no allowed content"
	ReasonNoRecipient       = "no recipient"
	ReasonHistoryError      = "history unavailable"
	ReasonPreferenceError   = "preferences unavailable"
	ReasonUserError         = "user lookup failed"
	ReasonPanic             = "panic"
	ReasonBusy              = "processed by another tick"
	ReasonLockError         = "user lock unavailable"
)

// DefaultMinResendInterval is the hard floor between two sends on one channel.
const DefaultMinResendInterval = 23 * time.Hour

// EngineConfig tunes the decision engine.
type EngineConfig struct {
	MinResendInterval time.Duration
	WeeklyWeekday     time.Weekday
	AppBaseURL        string
}

// Engine decides whether a channel should receive a message at a given instant.
// All methods are pure.
type Engine struct {
	cfg EngineConfig
}

// NewEngine creates an Engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.MinResendInterval <= 0 {
		cfg.MinResendInterval = DefaultMinResendInterval
	}
	return &Engine{cfg: cfg}
}

// DecisionInput is everything the engine needs for one (user, channel) pair.
type DecisionInput struct {
	Now        time.Time
	Channel    domain.Channel
	Preference domain.NotificationPreference
	LastSent   *time.Time
	Insight    *domain.Insight
	// DataUnavailable is set when the user's health entries could not be read.
	DataUnavailable bool
}

// Decision is the outcome for one (user, channel) pair.
type Decision struct {
	Send    bool
	Reason  string
	Message *domain.Insight
}

func skip(reason string) Decision { return Decision{Reason: reason} }

// Decide runs every gate in order and returns the first failing reason or the
// message to send.
func (e *Engine) Decide(in DecisionInput) Decision {
	if d, ok := e.ScheduleGate(in.Preference, in.Channel, in.Now); !ok {
		return d
	}
	if d, ok := e.FloorGate(in.LastSent, in.Now); !ok {
		return d
	}
	return e.Compose(in.Preference, in.Channel, in.Insight, in.DataUnavailable)
}

// ScheduleGate checks the channel toggle, the preferred hour in the user's
// time zone and the frequency calendar. Only the hour of the preferred time
// is matched because ticks arrive on whole hours.
func (e *Engine) ScheduleGate(p domain.NotificationPreference, ch domain.Channel, now time.Time) (Decision, bool) {
	cp := p.Channel(ch)
	if !cp.Enabled {
		return skip(ReasonChannelDisabled), false
	}

	hour, _, err := cp.PreferredClock()
	if err != nil {
		return skip(ReasonInvalidPreference), false
	}
	loc, err := loadLocation(p.Timezone)
	if err != nil {
		return skip(ReasonInvalidPreference), false
	}

	local := now.In(loc)
	if local.Hour() != hour {
		return skip(ReasonOutsideHour), false
	}

	switch cp.Frequency {
	case domain.FrequencyDaily:
	case domain.FrequencyWeekly:
		if local.Weekday() != e.cfg.WeeklyWeekday {
			return skip(ReasonNotScheduledDay), false
		}
	case domain.FrequencyMonthly:
		if local.Day() != 1 {
			return skip(ReasonNotScheduledDay), false
		}
	default:
		return skip(ReasonInvalidPreference), false
	}
	return Decision{}, true
}

// FloorGate rejects a send when the last successful one on the channel is
// more recent than the resend floor.
func (e *Engine) FloorGate(lastSent *time.Time, now time.Time) (Decision, bool) {
	if lastSent != nil && now.Sub(*lastSent) < e.cfg.MinResendInterval {
		return skip(ReasonRecentlySent), false
	}
	return Decision{}, true
}

// Compose picks the content: the analyzer's insight when its category is
// enabled, a supportive message when no data could be read, otherwise a
// periodic digest. A send is never empty.
func (e *Engine) Compose(p domain.NotificationPreference, ch domain.Channel, in *domain.Insight, dataUnavailable bool) Decision {
	if in != nil && p.Categories.Allows(in.Type) {
		return Decision{Send: true, Message: in}
	}
	if !p.Categories.AllowsDigest() {
		return skip(ReasonNoContent)
	}
	if dataUnavailable {
		return Decision{Send: true, Message: e.hereForYou()}
	}
	return Decision{Send: true, Message: e.digest(p.Channel(ch).Frequency)}
}

func (e *Engine) hereForYou() *domain.Insight {
	return &domain.Insight{
		Type:      domain.InsightEncouragement,
		Priority:  domain.PriorityLow,
		Title:     "We're here for you",
		Message:   "However this week is going, a quick check-in helps you see the bigger picture.",
		ActionURL: e.cfg.AppBaseURL,
	}
}

func (e *Engine) digest(f domain.Frequency) *domain.Insight {
	adjective, period := "daily", "day"
	switch f {
	case domain.FrequencyWeekly:
		adjective, period = "weekly", "week"
	case domain.FrequencyMonthly:
		adjective, period = "monthly", "month"
	}
	return &domain.Insight{
		Type:      domain.InsightReminder,
		Priority:  domain.PriorityLow,
		Title:     fmt.Sprintf("Your %s check-in", adjective),
		Message:   fmt.Sprintf("Take a moment to log how this %s has been. Your journal is waiting.", period),
		ActionURL: e.cfg.AppBaseURL,
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
