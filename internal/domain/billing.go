package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionType identifies the AI-backed feature that spends tokens.
type ActionType string

const (
	ActionJournalInsight      ActionType = "JOURNAL_INSIGHT"
	ActionPersonalizedMessage ActionType = "PERSONALIZED_MESSAGE"
	ActionHealthReport        ActionType = "HEALTH_REPORT"
	ActionChatReply           ActionType = "CHAT_REPLY"
	ActionDataAnalysis        ActionType = "DATA_ANALYSIS"
)

// AllActionTypes lists every recognized action type.
var AllActionTypes = []ActionType{
	ActionJournalInsight,
	ActionPersonalizedMessage,
	ActionHealthReport,
	ActionChatReply,
	ActionDataAnalysis,
}

func (a ActionType) String() string { return string(a) }

func (a ActionType) IsValid() bool {
	switch a {
	case ActionJournalInsight, ActionPersonalizedMessage, ActionHealthReport,
		ActionChatReply, ActionDataAnalysis:
		return true
	}
	return false
}

// TokenBalance is the prepaid token balance of one user.
type TokenBalance struct {
	UserID    uuid.UUID
	Balance   int64
	UpdatedAt time.Time
}

// DeductResult is the outcome of an atomic deduction attempt.
// Success=false with BalanceBefore=BalanceAfter means the balance could not cover the amount.
type DeductResult struct {
	Success       bool
	BalanceBefore int64
	BalanceAfter  int64
}

// UsageLedgerEntry is an immutable record of one successful deduction.
// BalanceAfter = BalanceBefore - Deducted and BalanceAfter >= 0.
type UsageLedgerEntry struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ActionType    ActionType
	ProviderUnits int64
	Deducted      int64
	BalanceBefore int64
	BalanceAfter  int64
	Metadata      map[string]any
	CreatedAt     time.Time
}

// IsConsistent reports whether the entry satisfies the ledger invariant.
func (e UsageLedgerEntry) IsConsistent() bool {
	return e.Deducted >= 0 && e.BalanceAfter >= 0 && e.BalanceAfter == e.BalanceBefore-e.Deducted
}

// ReconciliationReason explains why provider usage ended up unbilled.
type ReconciliationReason string

const (
	ReconcileInsufficientAfterCall ReconciliationReason = "INSUFFICIENT_AFTER_CALL"
	ReconcilePersistenceFailure    ReconciliationReason = "PERSISTENCE_FAILURE"
)

// ReconciliationRecord captures a provider call whose cost could not be charged.
type ReconciliationRecord struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ActionType    ActionType
	ProviderUnits int64
	Amount        int64
	Reason        ReconciliationReason
	Detail        string
	CreatedAt     time.Time
}

// TokenGrant records tokens added to a balance (purchase, promotion, support credit).
type TokenGrant struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Amount       int64
	Reason       string
	BalanceAfter int64
	CreatedAt    time.Time
}
