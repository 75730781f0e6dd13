package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/pkg/ctxutil"
)

const (
	defaultUsageLimit = 20
	maxUsageLimit     = 100
	maxReasonLength   = 200
)

type balanceRepo interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int64, error)
	Grant(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*domain.TokenGrant, error)
}

type usageRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID, f domain.UsageFilter) ([]domain.UsageLedgerEntry, error)
	CountByUser(ctx context.Context, userID uuid.UUID, actionType *domain.ActionType) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountService exposes balance reads, ledger history and operator grants.
type AccountService struct {
	log      *slog.Logger
	balances balanceRepo
	usage    usageRepo
	tx       txManager
}

// NewAccountService creates an AccountService.
func NewAccountService(logger *slog.Logger, balances balanceRepo, usage usageRepo, tx txManager) *AccountService {
	return &AccountService{
		log:      logger.With("service", "billing"),
		balances: balances,
		usage:    usage,
		tx:       tx,
	}
}

// UsagePage is one page of ledger rows plus the total matching count.
type UsagePage struct {
	Items []domain.UsageLedgerEntry
	Total int
}

// UsageInput selects a page of the caller's ledger.
type UsageInput struct {
	ActionType *domain.ActionType
	Limit      int
	Offset     int
}

// Validate checks the filter and applies the default page size.
func (i *UsageInput) Validate() error {
	var errs []domain.FieldError

	if i.ActionType != nil && !i.ActionType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action_type", Message: "unknown action type"})
	}
	if i.Limit < 0 || i.Limit > maxUsageLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 100"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	if i.Limit == 0 {
		i.Limit = defaultUsageLimit
	}
	return nil
}

// Balance returns the authenticated user's balance. Users without a balance
// row have zero tokens.
func (s *AccountService) Balance(ctx context.Context) (int64, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return s.BalanceOf(ctx, userID)
}

// BalanceOf returns the balance of an arbitrary user. Operator use only.
func (s *AccountService) BalanceOf(ctx context.Context, userID uuid.UUID) (int64, error) {
	balance, err := s.balances.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("billing.Balance: %w", err)
	}
	return balance, nil
}

// Usage returns the authenticated user's ledger, newest first.
func (s *AccountService) Usage(ctx context.Context, input UsageInput) (*UsagePage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	items, err := s.usage.ListByUser(ctx, userID, domain.UsageFilter{
		ActionType: input.ActionType,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("billing.Usage: %w", err)
	}

	total, err := s.usage.CountByUser(ctx, userID, input.ActionType)
	if err != nil {
		return nil, fmt.Errorf("billing.Usage: count: %w", err)
	}

	return &UsagePage{Items: items, Total: total}, nil
}

// Grant credits tokens to a user and records the grant in one transaction.
func (s *AccountService) Grant(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*domain.TokenGrant, error) {
	var errs []domain.FieldError
	if userID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	if amount <= 0 {
		errs = append(errs, domain.FieldError{Field: "amount", Message: "must be > 0"})
	}
	reason = strings.TrimSpace(reason)
	switch {
	case reason == "":
		errs = append(errs, domain.FieldError{Field: "reason", Message: "required"})
	case len(reason) > maxReasonLength:
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 200 characters"})
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	var grant *domain.TokenGrant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		grant, err = s.balances.Grant(txCtx, userID, amount, reason)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("billing.Grant: %w", err)
	}

	s.log.InfoContext(ctx, "tokens granted",
		slog.String("user_id", userID.String()),
		slog.Int64("amount", amount),
		slog.Int64("balance_after", grant.BalanceAfter),
		slog.String("reason", reason),
	)

	return grant, nil
}
