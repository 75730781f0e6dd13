package domain

// InsightType classifies notification-worthy content.
type InsightType string

const (
	InsightPattern       InsightType = "pattern"
	InsightImprovement   InsightType = "improvement"
	InsightTip           InsightType = "tip"
	InsightEncouragement InsightType = "encouragement"
	InsightReminder      InsightType = "reminder"
)

func (t InsightType) IsValid() bool {
	switch t {
	case InsightPattern, InsightImprovement, InsightTip, InsightEncouragement, InsightReminder:
		return true
	}
	return false
}

// Priority ranks how important an insight is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Insight is an ephemeral value derived from recent health entries.
type Insight struct {
	Type      InsightType    `json:"type"`
	Priority  Priority       `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	ActionURL string         `json:"action_url,omitempty"`
	Data      map[string]int `json:"data,omitempty"`
}
