package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

var (
	_ prefStore    = &prefStoreMock{}
	_ historyStore = &historyStoreMock{}
	_ txManager    = &txManagerMock{}
)

type prefStoreMock struct {
	GetFunc           func(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error)
	UpsertFunc        func(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error)
	InsertDefaultFunc func(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error)

	calls struct {
		Get []struct {
			UserID uuid.UUID
		}
		Upsert []struct {
			P domain.NotificationPreference
		}
		InsertDefault []struct {
			P domain.NotificationPreference
		}
	}
	lockGet           sync.RWMutex
	lockUpsert        sync.RWMutex
	lockInsertDefault sync.RWMutex
}

func (mock *prefStoreMock) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationPreference, error) {
	if mock.GetFunc == nil {
		panic("prefStoreMock.GetFunc: method is nil but prefStore.Get was just called")
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, struct{ UserID uuid.UUID }{userID})
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, userID)
}

func (mock *prefStoreMock) GetCalls() []struct{ UserID uuid.UUID } {
	mock.lockGet.RLock()
	defer mock.lockGet.RUnlock()
	return mock.calls.Get
}

func (mock *prefStoreMock) Upsert(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	if mock.UpsertFunc == nil {
		panic("prefStoreMock.UpsertFunc: method is nil but prefStore.Upsert was just called")
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, struct{ P domain.NotificationPreference }{p})
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, p)
}

func (mock *prefStoreMock) UpsertCalls() []struct{ P domain.NotificationPreference } {
	mock.lockUpsert.RLock()
	defer mock.lockUpsert.RUnlock()
	return mock.calls.Upsert
}

func (mock *prefStoreMock) InsertDefault(ctx context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	if mock.InsertDefaultFunc == nil {
		panic("prefStoreMock.InsertDefaultFunc: method is nil but prefStore.InsertDefault was just called")
	}
	mock.lockInsertDefault.Lock()
	mock.calls.InsertDefault = append(mock.calls.InsertDefault, struct{ P domain.NotificationPreference }{p})
	mock.lockInsertDefault.Unlock()
	return mock.InsertDefaultFunc(ctx, p)
}

func (mock *prefStoreMock) InsertDefaultCalls() []struct{ P domain.NotificationPreference } {
	mock.lockInsertDefault.RLock()
	defer mock.lockInsertDefault.RUnlock()
	return mock.calls.InsertDefault
}

type historyStoreMock struct {
	AppendFunc     func(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error)
	LastSentFunc   func(ctx context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error)

	calls struct {
		ListByUser []struct {
			UserID  uuid.UUID
			Channel *domain.Channel
			Limit   int
		}
	}
	lockListByUser sync.RWMutex
}

func (mock *historyStoreMock) Append(ctx context.Context, e domain.NotificationHistoryEntry) (*domain.NotificationHistoryEntry, error) {
	if mock.AppendFunc == nil {
		panic("historyStoreMock.AppendFunc: method is nil but historyStore.Append was just called")
	}
	return mock.AppendFunc(ctx, e)
}

func (mock *historyStoreMock) LastSent(ctx context.Context, userID uuid.UUID, ch domain.Channel) (*time.Time, error) {
	if mock.LastSentFunc == nil {
		panic("historyStoreMock.LastSentFunc: method is nil but historyStore.LastSent was just called")
	}
	return mock.LastSentFunc(ctx, userID, ch)
}

func (mock *historyStoreMock) ListByUser(ctx context.Context, userID uuid.UUID, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error) {
	if mock.ListByUserFunc == nil {
		panic("historyStoreMock.ListByUserFunc: method is nil but historyStore.ListByUser was just called")
	}
	callInfo := struct {
		UserID  uuid.UUID
		Channel *domain.Channel
		Limit   int
	}{userID, ch, limit}
	mock.lockListByUser.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, callInfo)
	mock.lockListByUser.Unlock()
	return mock.ListByUserFunc(ctx, userID, ch, limit)
}

func (mock *historyStoreMock) ListByUserCalls() []struct {
	UserID  uuid.UUID
	Channel *domain.Channel
	Limit   int
} {
	mock.lockListByUser.RLock()
	defer mock.lockListByUser.RUnlock()
	return mock.calls.ListByUser
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

// passthroughTx runs fn directly.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}
