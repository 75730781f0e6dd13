package rest

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/wellnote-backend/internal/auth"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/internal/service/aiexec"
	"github.com/heartmarshall/wellnote-backend/internal/service/billing"
	"github.com/heartmarshall/wellnote-backend/internal/service/notification"
)

var (
	_ aiExecutor          = &aiExecutorMock{}
	_ billingService      = &billingServiceMock{}
	_ notificationService = &notificationServiceMock{}
	_ tickRunner          = &tickRunnerMock{}
	_ tokenVerifier       = &tokenVerifierMock{}
)

type aiExecutorMock struct {
	ExecuteFunc func(ctx context.Context, in aiexec.ExecuteInput) aiexec.Result

	mu    sync.Mutex
	calls []aiexec.ExecuteInput
}

func (m *aiExecutorMock) Execute(ctx context.Context, in aiexec.ExecuteInput) aiexec.Result {
	if m.ExecuteFunc == nil {
		panic("aiExecutorMock.ExecuteFunc: method is nil but aiExecutor.Execute was just called")
	}
	m.mu.Lock()
	m.calls = append(m.calls, in)
	m.mu.Unlock()
	return m.ExecuteFunc(ctx, in)
}

func (m *aiExecutorMock) ExecuteCalls() []aiexec.ExecuteInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type billingServiceMock struct {
	BalanceFunc func(ctx context.Context) (int64, error)
	UsageFunc   func(ctx context.Context, input billing.UsageInput) (*billing.UsagePage, error)
}

func (m *billingServiceMock) Balance(ctx context.Context) (int64, error) {
	if m.BalanceFunc == nil {
		panic("billingServiceMock.BalanceFunc: method is nil but billingService.Balance was just called")
	}
	return m.BalanceFunc(ctx)
}

func (m *billingServiceMock) Usage(ctx context.Context, input billing.UsageInput) (*billing.UsagePage, error) {
	if m.UsageFunc == nil {
		panic("billingServiceMock.UsageFunc: method is nil but billingService.Usage was just called")
	}
	return m.UsageFunc(ctx, input)
}

type notificationServiceMock struct {
	GetPreferencesFunc    func(ctx context.Context) (*domain.NotificationPreference, error)
	UpdatePreferencesFunc func(ctx context.Context, input notification.UpdatePreferencesInput) (*domain.NotificationPreference, error)
	ListHistoryFunc       func(ctx context.Context, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error)
}

func (m *notificationServiceMock) GetPreferences(ctx context.Context) (*domain.NotificationPreference, error) {
	if m.GetPreferencesFunc == nil {
		panic("notificationServiceMock.GetPreferencesFunc: method is nil but notificationService.GetPreferences was just called")
	}
	return m.GetPreferencesFunc(ctx)
}

func (m *notificationServiceMock) UpdatePreferences(ctx context.Context, input notification.UpdatePreferencesInput) (*domain.NotificationPreference, error) {
	if m.UpdatePreferencesFunc == nil {
		panic("notificationServiceMock.UpdatePreferencesFunc: method is nil but notificationService.UpdatePreferences was just called")
	}
	return m.UpdatePreferencesFunc(ctx, input)
}

func (m *notificationServiceMock) ListHistory(ctx context.Context, ch *domain.Channel, limit int) ([]domain.NotificationHistoryEntry, error) {
	if m.ListHistoryFunc == nil {
		panic("notificationServiceMock.ListHistoryFunc: method is nil but notificationService.ListHistory was just called")
	}
	return m.ListHistoryFunc(ctx, ch, limit)
}

type tickRunnerMock struct {
	RunTickFunc func(ctx context.Context, now time.Time) (*notification.Summary, error)
}

func (m *tickRunnerMock) RunTick(ctx context.Context, now time.Time) (*notification.Summary, error) {
	if m.RunTickFunc == nil {
		panic("tickRunnerMock.RunTickFunc: method is nil but tickRunner.RunTick was just called")
	}
	return m.RunTickFunc(ctx, now)
}

type tokenVerifierMock struct {
	VerifyFunc func(token string) (auth.Claims, error)
}

func (m *tokenVerifierMock) Verify(token string) (auth.Claims, error) {
	if m.VerifyFunc == nil {
		panic("tokenVerifierMock.VerifyFunc: method is nil but tokenVerifier.Verify was just called")
	}
	return m.VerifyFunc(token)
}
