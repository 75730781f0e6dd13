package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

var (
	_ balanceRepo = &balanceRepoMock{}
	_ usageRepo   = &usageRepoMock{}
	_ txManager   = &txManagerMock{}
)

type balanceRepoMock struct {
	GetBalanceFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	GrantFunc      func(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*domain.TokenGrant, error)

	calls struct {
		Grant []struct {
			UserID uuid.UUID
			Amount int64
			Reason string
		}
	}
	lockGrant sync.RWMutex
}

func (mock *balanceRepoMock) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if mock.GetBalanceFunc == nil {
		panic("balanceRepoMock.GetBalanceFunc: method is nil but balanceRepo.GetBalance was just called")
	}
	return mock.GetBalanceFunc(ctx, userID)
}

func (mock *balanceRepoMock) Grant(ctx context.Context, userID uuid.UUID, amount int64, reason string) (*domain.TokenGrant, error) {
	if mock.GrantFunc == nil {
		panic("balanceRepoMock.GrantFunc: method is nil but balanceRepo.Grant was just called")
	}
	mock.lockGrant.Lock()
	mock.calls.Grant = append(mock.calls.Grant, struct {
		UserID uuid.UUID
		Amount int64
		Reason string
	}{userID, amount, reason})
	mock.lockGrant.Unlock()
	return mock.GrantFunc(ctx, userID, amount, reason)
}

func (mock *balanceRepoMock) GrantCalls() []struct {
	UserID uuid.UUID
	Amount int64
	Reason string
} {
	mock.lockGrant.RLock()
	defer mock.lockGrant.RUnlock()
	return mock.calls.Grant
}

type usageRepoMock struct {
	ListByUserFunc  func(ctx context.Context, userID uuid.UUID, f domain.UsageFilter) ([]domain.UsageLedgerEntry, error)
	CountByUserFunc func(ctx context.Context, userID uuid.UUID, actionType *domain.ActionType) (int, error)

	calls struct {
		ListByUser []struct {
			UserID uuid.UUID
			F      domain.UsageFilter
		}
	}
	lockListByUser sync.RWMutex
}

func (mock *usageRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, f domain.UsageFilter) ([]domain.UsageLedgerEntry, error) {
	if mock.ListByUserFunc == nil {
		panic("usageRepoMock.ListByUserFunc: method is nil but usageRepo.ListByUser was just called")
	}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, struct {
		UserID uuid.UUID
		F      domain.UsageFilter
	}{userID, f})
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID, f)
}

func (mock *usageRepoMock) ListByUserCalls() []struct {
	UserID uuid.UUID
	F      domain.UsageFilter
} {
	mock.lockListByUser.RLock()
	defer mock.lockListByUser.RUnlock()
	return mock.calls.ListByUser
}

func (mock *usageRepoMock) CountByUser(ctx context.Context, userID uuid.UUID, actionType *domain.ActionType) (int, error) {
	if mock.CountByUserFunc == nil {
		panic("usageRepoMock.CountByUserFunc: method is nil but usageRepo.CountByUser was just called")
	}
	return mock.CountByUserFunc(ctx, userID, actionType)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

func passthroughTx() *txManagerMock {
	return &txManagerMock{RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}}
}
