// Package billing prices provider usage in platform tokens and manages
// user balances.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// DefaultMultiplier is the platform markup applied to provider usage units.
var DefaultMultiplier = decimal.NewFromInt(2)

// CostCalculator turns provider usage units into platform tokens:
// cost = ceil(units * multiplier).
type CostCalculator struct {
	multiplier decimal.Decimal
}

// NewCostCalculator parses multiplier (a decimal string such as "2" or "1.5").
// An empty string selects DefaultMultiplier. The multiplier must be > 1.
func NewCostCalculator(multiplier string) (*CostCalculator, error) {
	m := DefaultMultiplier
	if multiplier != "" {
		parsed, err := decimal.NewFromString(multiplier)
		if err != nil {
			return nil, fmt.Errorf("billing: parse multiplier %q: %w", multiplier, err)
		}
		m = parsed
	}
	if !m.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("billing: multiplier must be > 1, got %s", m)
	}
	return &CostCalculator{multiplier: m}, nil
}

// Multiplier returns the configured multiplier.
func (c *CostCalculator) Multiplier() decimal.Decimal { return c.multiplier }

// Calculate returns the tokens charged for providerUnits. Negative input counts as 0.
func (c *CostCalculator) Calculate(providerUnits int64) int64 {
	if providerUnits <= 0 {
		return 0
	}
	return decimal.NewFromInt(providerUnits).Mul(c.multiplier).Ceil().IntPart()
}

// Estimates holds the pre-flight token estimate per action type.
type Estimates struct {
	byAction map[domain.ActionType]int64
	fallback int64
}

// DefaultEstimates is the built-in table used when configuration has no override.
var DefaultEstimates = map[domain.ActionType]int64{
	domain.ActionJournalInsight:      300,
	domain.ActionPersonalizedMessage: 200,
	domain.ActionHealthReport:        800,
	domain.ActionChatReply:           250,
	domain.ActionDataAnalysis:        600,
}

// NewEstimates builds the estimate table from DefaultEstimates, overridden by
// overrides (keyed by action type name). fallback applies to unknown actions.
func NewEstimates(overrides map[string]int64, fallback int64) (*Estimates, error) {
	table := make(map[domain.ActionType]int64, len(DefaultEstimates))
	for k, v := range DefaultEstimates {
		table[k] = v
	}
	for name, v := range overrides {
		a := domain.ActionType(name)
		if !a.IsValid() {
			return nil, fmt.Errorf("billing: unknown action type %q in estimates", name)
		}
		if v <= 0 {
			return nil, fmt.Errorf("billing: estimate for %s must be > 0", name)
		}
		table[a] = v
	}
	if fallback <= 0 {
		return nil, fmt.Errorf("billing: default estimate must be > 0")
	}
	return &Estimates{byAction: table, fallback: fallback}, nil
}

// For returns the estimate for action.
func (e *Estimates) For(action domain.ActionType) int64 {
	if v, ok := e.byAction[action]; ok {
		return v
	}
	return e.fallback
}
