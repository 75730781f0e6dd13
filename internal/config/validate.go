package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if len(c.Auth.CronSecret) < 16 {
		return fmt.Errorf("auth.cron_secret must be at least 16 characters (got %d)", len(c.Auth.CronSecret))
	}

	if err := c.LLM.validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Billing.validate(); err != nil {
		return fmt.Errorf("billing: %w", err)
	}
	if err := c.Notification.validate(); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	if err := c.Scheduler.validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	// Each in-flight user holds one connection for its tick lock.
	if int32(c.Scheduler.Concurrency) >= c.Database.MaxConns {
		return fmt.Errorf("scheduler: concurrency must be below database.max_conns (%d >= %d)",
			c.Scheduler.Concurrency, c.Database.MaxConns)
	}
	if err := c.Delivery.validate(); err != nil {
		return fmt.Errorf("delivery: %w", err)
	}

	return nil
}

func (l *LLMConfig) validate() error {
	switch l.Provider {
	case "anthropic":
		if l.APIKey == "" {
			return fmt.Errorf("api_key is required for provider anthropic")
		}
	case "stub":
	default:
		return fmt.Errorf("unknown provider %q", l.Provider)
	}
	if l.MaxOutputTokens <= 0 {
		return fmt.Errorf("max_output_tokens must be > 0 (got %d)", l.MaxOutputTokens)
	}
	if l.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	return nil
}

func (b *BillingConfig) validate() error {
	m, err := decimal.NewFromString(strings.TrimSpace(b.Multiplier))
	if err != nil {
		return fmt.Errorf("multiplier %q: %w", b.Multiplier, err)
	}
	if !m.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("multiplier must be > 1 (got %s)", m.String())
	}
	if b.LowBalanceThreshold < 0 {
		return fmt.Errorf("low_balance_threshold must be >= 0 (got %d)", b.LowBalanceThreshold)
	}
	if b.DefaultEstimate <= 0 {
		return fmt.Errorf("default_estimate must be > 0 (got %d)", b.DefaultEstimate)
	}
	switch b.Locale {
	case "en", "ru":
	default:
		return fmt.Errorf("unsupported locale %q", b.Locale)
	}

	estimates, err := ParseEstimates(b.EstimatesRaw)
	if err != nil {
		return fmt.Errorf("estimates: %w", err)
	}
	b.Estimates = estimates

	return nil
}

func (n *NotificationConfig) validate() error {
	if n.MinResendInterval < time.Hour {
		return fmt.Errorf("min_resend_interval must be at least 1h (got %s)", n.MinResendInterval)
	}
	if n.StaleAfterDays <= 0 {
		return fmt.Errorf("stale_after_days must be > 0 (got %d)", n.StaleAfterDays)
	}
	if n.HistoryWindow < 14 {
		return fmt.Errorf("history_window must be >= 14 (got %d)", n.HistoryWindow)
	}

	wd, err := ParseWeekday(n.WeeklyWeekdayRaw)
	if err != nil {
		return fmt.Errorf("weekly_weekday: %w", err)
	}
	n.WeeklyWeekday = wd

	return nil
}

func (s *SchedulerConfig) validate() error {
	if s.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1 (got %d)", s.Concurrency)
	}
	if s.TickBudget <= 0 {
		return fmt.Errorf("tick_budget must be > 0")
	}
	return nil
}

func (d *DeliveryConfig) validate() error {
	switch d.Mode {
	case "log":
	case "webhook":
		if d.WebhookURL == "" {
			return fmt.Errorf("webhook_url is required for mode webhook")
		}
	default:
		return fmt.Errorf("unknown mode %q", d.Mode)
	}
	return nil
}

// ParseEstimates parses "ACTION=n,ACTION=n" into a map. An empty string returns an empty map.
func ParseEstimates(raw string) (map[string]int64, error) {
	out := make(map[string]int64)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out, nil
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q", part)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount in %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("amount in %q must be > 0", part)
		}
		out[strings.ToUpper(strings.TrimSpace(key))] = n
	}

	return out, nil
}

// ParseWeekday parses an English weekday name ("monday", "Mon").
func ParseWeekday(raw string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", raw)
}
