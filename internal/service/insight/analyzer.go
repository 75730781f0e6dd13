// Package insight derives at most one insight from a user's recent health entries.
package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

const (
	windowSize      = 7
	minEntries      = 3
	sleepPatternMin = 4
	moodPatternMin  = 4
	tipMin          = 3

	// DefaultStaleAfterDays applies when Config.StaleAfterDays is not positive.
	DefaultStaleAfterDays = 3
)

// Config tunes the analyzer.
type Config struct {
	StaleAfterDays int
	JournalURL     string
}

// Analyzer applies the insight rules. It holds no state between calls.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.StaleAfterDays <= 0 {
		cfg.StaleAfterDays = DefaultStaleAfterDays
	}
	return &Analyzer{cfg: cfg}
}

// metric is a countable property of an entry.
type metric struct {
	key      string
	label    string
	negative bool
	symptom  domain.Symptom
	match    func(domain.HealthEntry) bool
}

func symptomMetric(s domain.Symptom) metric {
	return metric{
		key:      string(s),
		label:    s.Label(),
		negative: true,
		symptom:  s,
		match:    func(e domain.HealthEntry) bool { return e.Has(s) },
	}
}

var (
	poorSleep = metric{key: "poor_sleep", label: "poor sleep", negative: true,
		match: func(e domain.HealthEntry) bool { return e.SleepQuality == domain.SleepPoor }}
	negativeMood = metric{key: "negative_mood", label: "low mood", negative: true,
		match: func(e domain.HealthEntry) bool { return e.Mood == domain.MoodNegative }}
	goodSleep = metric{key: "good_sleep", label: "good sleep",
		match: func(e domain.HealthEntry) bool { return e.SleepQuality == domain.SleepGood }}
	positiveMood = metric{key: "positive_mood", label: "positive mood",
		match: func(e domain.HealthEntry) bool { return e.Mood == domain.MoodPositive }}
)

// negativeMetrics lists symptoms in fixed order, then sleep, then mood.
func negativeMetrics() []metric {
	out := make([]metric, 0, len(domain.AllSymptoms)+2)
	for _, s := range domain.AllSymptoms {
		out = append(out, symptomMetric(s))
	}
	return append(out, poorSleep, negativeMood)
}

func count(entries []domain.HealthEntry, m metric) int {
	n := 0
	for _, e := range entries {
		if m.match(e) {
			n++
		}
	}
	return n
}

// Analyze returns the first matching insight for entries (most recent first),
// or nil when nothing is worth saying. The first 7 entries form the recent
// window and the next 7 the prior window. Trends need both windows full.
func (a *Analyzer) Analyze(entries []domain.HealthEntry, now time.Time) *domain.Insight {
	if len(entries) < minEntries {
		return a.getStarted(len(entries))
	}

	recent := entries[:min(windowSize, len(entries))]
	var prior []domain.HealthEntry
	if len(entries) >= 2*windowSize {
		prior = entries[windowSize : 2*windowSize]
	}

	if in := a.pattern(recent); in != nil {
		return in
	}
	if in := a.improvement(recent, prior); in != nil {
		return in
	}
	if in := a.tip(recent); in != nil {
		return in
	}
	return a.stale(entries[0], now)
}

func (a *Analyzer) getStarted(n int) *domain.Insight {
	return &domain.Insight{
		Type:      domain.InsightEncouragement,
		Priority:  domain.PriorityLow,
		Title:     "Let's get started",
		Message:   "Log a few more check-ins and we will start spotting patterns for you.",
		ActionURL: a.cfg.JournalURL,
		Data:      map[string]int{"entries": n},
	}
}

func (a *Analyzer) pattern(recent []domain.HealthEntry) *domain.Insight {
	window := len(recent)

	for _, s := range domain.AllSymptoms {
		m := symptomMetric(s)
		if c := count(recent, m); 2*c > window {
			return &domain.Insight{
				Type:      domain.InsightPattern,
				Priority:  domain.PriorityHigh,
				Title:     fmt.Sprintf("Frequent %s", m.label),
				Message:   fmt.Sprintf("You logged %s in %d of the last %d entries. Consider mentioning this to your doctor.", m.label, c, window),
				ActionURL: a.cfg.JournalURL,
				Data:      map[string]int{"count": c, "window": window},
			}
		}
	}

	if c := count(recent, poorSleep); c >= sleepPatternMin {
		return &domain.Insight{
			Type:      domain.InsightPattern,
			Priority:  domain.PriorityHigh,
			Title:     "Your sleep needs attention",
			Message:   fmt.Sprintf("You reported poor sleep in %d of the last %d entries.", c, window),
			ActionURL: a.cfg.JournalURL,
			Data:      map[string]int{"count": c, "window": window},
		}
	}

	if c := count(recent, negativeMood); c >= moodPatternMin {
		return &domain.Insight{
			Type:      domain.InsightPattern,
			Priority:  domain.PriorityMedium,
			Title:     "A tough stretch",
			Message:   fmt.Sprintf("Your mood was low in %d of the last %d entries. Be gentle with yourself.", c, window),
			ActionURL: a.cfg.JournalURL,
			Data:      map[string]int{"count": c, "window": window},
		}
	}

	return nil
}

func (a *Analyzer) improvement(recent, prior []domain.HealthEntry) *domain.Insight {
	if len(prior) != windowSize {
		return nil
	}

	metrics := append(negativeMetrics(), goodSleep, positiveMood)
	for _, m := range metrics {
		before, after := count(prior, m), count(recent, m)
		if before == 0 {
			continue
		}
		improved := (m.negative && after < before) || (!m.negative && after > before)
		if !improved {
			continue
		}

		verb := "dropped"
		if !m.negative {
			verb = "rose"
		}
		return &domain.Insight{
			Type:      domain.InsightImprovement,
			Priority:  domain.PriorityMedium,
			Title:     fmt.Sprintf("Progress on %s", m.label),
			Message:   fmt.Sprintf("%s %s %d → %d compared with the week before.", capitalize(m.label), verb, before, after),
			ActionURL: a.cfg.JournalURL,
			Data:      map[string]int{"before": before, "after": after},
		}
	}
	return nil
}

var tips = map[string]string{
	string(domain.SymptomHotFlashes):  "Layered clothing, a cool bedroom and cutting back on caffeine can ease hot flashes.",
	string(domain.SymptomNightSweats): "Breathable bedding and a fan near the bed often help with night sweats.",
	string(domain.SymptomHeadache):    "Staying hydrated and keeping regular meal times may reduce headaches.",
	string(domain.SymptomFatigue):     "Short daytime walks and a consistent bedtime can lift fatigue.",
	string(domain.SymptomJointPain):   "Gentle stretching or swimming keeps joints moving without strain.",
	poorSleep.key:                     "Try a wind-down routine and keep screens out of the bedroom to sleep better.",
	negativeMood.key:                  "A few minutes of fresh air or talking to a friend can brighten a low day.",
}

func (a *Analyzer) tip(recent []domain.HealthEntry) *domain.Insight {
	for _, m := range negativeMetrics() {
		c := count(recent, m)
		if c < tipMin {
			continue
		}
		return &domain.Insight{
			Type:      domain.InsightTip,
			Priority:  domain.PriorityMedium,
			Title:     fmt.Sprintf("A tip for %s", m.label),
			Message:   tips[m.key],
			ActionURL: a.cfg.JournalURL,
			Data:      map[string]int{"count": c, "window": len(recent)},
		}
	}
	return nil
}

func (a *Analyzer) stale(latest domain.HealthEntry, now time.Time) *domain.Insight {
	elapsed := now.Sub(latest.Date)
	if elapsed <= time.Duration(a.cfg.StaleAfterDays)*24*time.Hour {
		return nil
	}
	days := int(elapsed.Hours() / 24)
	return &domain.Insight{
		Type:      domain.InsightReminder,
		Priority:  domain.PriorityLow,
		Title:     "We miss your check-ins",
		Message:   fmt.Sprintf("It has been %d days since your last entry. A quick check-in keeps your insights accurate.", days),
		ActionURL: a.cfg.JournalURL,
		Data:      map[string]int{"days_since": days},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
