package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeOfDay distinguishes the two daily check-ins.
type TimeOfDay string

const (
	TimeOfDayMorning TimeOfDay = "morning"
	TimeOfDayEvening TimeOfDay = "evening"
)

// SleepQuality is the self-reported sleep rating. SleepPoor is the worst value.
type SleepQuality string

const (
	SleepGood SleepQuality = "good"
	SleepFair SleepQuality = "fair"
	SleepPoor SleepQuality = "poor"
)

// Mood is the self-reported mood rating. MoodNegative is the negative value.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// Symptom is a boolean symptom flag tracked in a health entry.
type Symptom string

const (
	SymptomHotFlashes  Symptom = "hot_flashes"
	SymptomNightSweats Symptom = "night_sweats"
	SymptomHeadache    Symptom = "headache"
	SymptomFatigue     Symptom = "fatigue"
	SymptomJointPain   Symptom = "joint_pain"
)

// AllSymptoms lists symptom flags in analysis priority order.
var AllSymptoms = []Symptom{
	SymptomHotFlashes,
	SymptomNightSweats,
	SymptomHeadache,
	SymptomFatigue,
	SymptomJointPain,
}

// Label returns a human-readable symptom name.
func (s Symptom) Label() string {
	switch s {
	case SymptomHotFlashes:
		return "hot flashes"
	case SymptomNightSweats:
		return "night sweats"
	case SymptomHeadache:
		return "headaches"
	case SymptomFatigue:
		return "fatigue"
	case SymptomJointPain:
		return "joint pain"
	}
	return string(s)
}

// HealthEntry is one journal check-in. It is owned by the journal subsystem
// and read-only here.
type HealthEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Date         time.Time
	TimeOfDay    TimeOfDay
	SleepQuality SleepQuality
	Mood         Mood
	Symptoms     []Symptom
	CreatedAt    time.Time
}

// Has reports whether the symptom flag is set.
func (e HealthEntry) Has(s Symptom) bool {
	for _, got := range e.Symptoms {
		if got == s {
			return true
		}
	}
	return false
}
