package aiexec

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/provider"
)

var (
	_ balanceStore = &balanceStoreMock{}
	_ usageLedger  = &usageLedgerMock{}
	_ reconciler   = &reconcilerMock{}
	_ llmProvider  = &llmProviderMock{}
	_ txManager    = &txManagerMock{}
)

type balanceStoreMock struct {
	GetBalanceFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	TryDeductFunc  func(ctx context.Context, userID uuid.UUID, amount int64) (domain.DeductResult, error)

	calls struct {
		GetBalance []struct {
			UserID uuid.UUID
		}
		TryDeduct []struct {
			UserID uuid.UUID
			Amount int64
		}
	}
	lockGetBalance sync.RWMutex
	lockTryDeduct  sync.RWMutex
}

func (mock *balanceStoreMock) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	if mock.GetBalanceFunc == nil {
		panic("balanceStoreMock.GetBalanceFunc: method is nil but balanceStore.GetBalance was just called")
	}
	mock.lockGetBalance.Lock()
	mock.calls.GetBalance = append(mock.calls.GetBalance, struct{ UserID uuid.UUID }{userID})
	mock.lockGetBalance.Unlock()
	return mock.GetBalanceFunc(ctx, userID)
}

func (mock *balanceStoreMock) GetBalanceCalls() []struct{ UserID uuid.UUID } {
	mock.lockGetBalance.RLock()
	defer mock.lockGetBalance.RUnlock()
	return mock.calls.GetBalance
}

func (mock *balanceStoreMock) TryDeduct(ctx context.Context, userID uuid.UUID, amount int64) (domain.DeductResult, error) {
	if mock.TryDeductFunc == nil {
		panic("balanceStoreMock.TryDeductFunc: method is nil but balanceStore.TryDeduct was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		Amount int64
	}{UserID: userID, Amount: amount}
	mock.lockTryDeduct.Lock()
	mock.calls.TryDeduct = append(mock.calls.TryDeduct, callInfo)
	mock.lockTryDeduct.Unlock()
	return mock.TryDeductFunc(ctx, userID, amount)
}

func (mock *balanceStoreMock) TryDeductCalls() []struct {
	UserID uuid.UUID
	Amount int64
} {
	mock.lockTryDeduct.RLock()
	defer mock.lockTryDeduct.RUnlock()
	return mock.calls.TryDeduct
}

type usageLedgerMock struct {
	AppendFunc func(ctx context.Context, entry domain.UsageLedgerEntry) (*domain.UsageLedgerEntry, error)

	calls struct {
		Append []struct {
			Entry domain.UsageLedgerEntry
		}
	}
	lockAppend sync.RWMutex
}

func (mock *usageLedgerMock) Append(ctx context.Context, entry domain.UsageLedgerEntry) (*domain.UsageLedgerEntry, error) {
	if mock.AppendFunc == nil {
		panic("usageLedgerMock.AppendFunc: method is nil but usageLedger.Append was just called")
	}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, struct{ Entry domain.UsageLedgerEntry }{entry})
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, entry)
}

func (mock *usageLedgerMock) AppendCalls() []struct{ Entry domain.UsageLedgerEntry } {
	mock.lockAppend.RLock()
	defer mock.lockAppend.RUnlock()
	return mock.calls.Append
}

type reconcilerMock struct {
	RecordFunc func(ctx context.Context, rec domain.ReconciliationRecord) (*domain.ReconciliationRecord, error)

	calls struct {
		Record []struct {
			Rec domain.ReconciliationRecord
		}
	}
	lockRecord sync.RWMutex
}

func (mock *reconcilerMock) Record(ctx context.Context, rec domain.ReconciliationRecord) (*domain.ReconciliationRecord, error) {
	if mock.RecordFunc == nil {
		panic("reconcilerMock.RecordFunc: method is nil but reconciler.Record was just called")
	}
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, struct{ Rec domain.ReconciliationRecord }{rec})
	mock.lockRecord.Unlock()
	return mock.RecordFunc(ctx, rec)
}

func (mock *reconcilerMock) RecordCalls() []struct{ Rec domain.ReconciliationRecord } {
	mock.lockRecord.RLock()
	defer mock.lockRecord.RUnlock()
	return mock.calls.Record
}

type llmProviderMock struct {
	CompleteFunc func(ctx context.Context, req provider.Request) (*provider.Completion, error)

	calls struct {
		Complete []struct {
			Req provider.Request
		}
	}
	lockComplete sync.RWMutex
}

func (mock *llmProviderMock) Complete(ctx context.Context, req provider.Request) (*provider.Completion, error) {
	if mock.CompleteFunc == nil {
		panic("llmProviderMock.CompleteFunc: method is nil but llmProvider.Complete was just called")
	}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, struct{ Req provider.Request }{req})
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, req)
}

func (mock *llmProviderMock) CompleteCalls() []struct{ Req provider.Request } {
	mock.lockComplete.RLock()
	defer mock.lockComplete.RUnlock()
	return mock.calls.Complete
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{}{})
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{} {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}
