package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
	"github.com/heartmarshall/wellnote-backend/pkg/ctxutil"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func ptr[T any](v T) *T { return &v }

func echoUpsert(_ context.Context, p domain.NotificationPreference) (*domain.NotificationPreference, error) {
	return &p, nil
}

func TestService_GetPreferences_Existing(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	stored := domain.DefaultNotificationPreference(userID)
	stored.Timezone = "Europe/Berlin"

	prefs := &prefStoreMock{
		GetFunc: func(_ context.Context, id uuid.UUID) (*domain.NotificationPreference, error) {
			assert.Equal(t, userID, id)
			return &stored, nil
		},
	}

	svc := NewService(newTestLogger(), prefs, nil, nil)
	got, err := svc.GetPreferences(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", got.Timezone)
	assert.Empty(t, prefs.InsertDefaultCalls())
}

func TestService_GetPreferences_CreatesDefault(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	prefs := &prefStoreMock{
		GetFunc: func(context.Context, uuid.UUID) (*domain.NotificationPreference, error) {
			return nil, domain.ErrNotFound
		},
		InsertDefaultFunc: echoUpsert,
	}

	svc := NewService(newTestLogger(), prefs, nil, nil)
	got, err := svc.GetPreferences(ctx)

	require.NoError(t, err)
	require.Len(t, prefs.InsertDefaultCalls(), 1)
	assert.Equal(t, domain.DefaultNotificationPreference(userID), *got)
}

func TestService_GetPreferences_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := NewService(newTestLogger(), &prefStoreMock{}, nil, nil)
	_, err := svc.GetPreferences(context.Background())

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_GetPreferences_StoreError(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	boom := errors.New("db down")
	prefs := &prefStoreMock{
		GetFunc: func(context.Context, uuid.UUID) (*domain.NotificationPreference, error) { return nil, boom },
	}

	svc := NewService(newTestLogger(), prefs, nil, nil)
	_, err := svc.GetPreferences(ctx)

	require.ErrorIs(t, err, boom)
	assert.Empty(t, prefs.InsertDefaultCalls())
}

func TestService_UpdatePreferences_PartialPatch(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	current := domain.DefaultNotificationPreference(userID)

	prefs := &prefStoreMock{
		GetFunc: func(context.Context, uuid.UUID) (*domain.NotificationPreference, error) {
			c := current
			return &c, nil
		},
		UpsertFunc: echoUpsert,
	}
	tx := passthroughTx()

	svc := NewService(newTestLogger(), prefs, nil, tx)
	got, err := svc.UpdatePreferences(ctx, UpdatePreferencesInput{
		Push:       &ChannelPatch{Enabled: ptr(true), PreferredTime: ptr("20:30")},
		Categories: &CategoriesPatch{Warnings: ptr(false)},
		Timezone:   ptr("America/New_York"),
	})

	require.NoError(t, err)
	assert.Len(t, tx.RunInTxCalls(), 1)
	require.Len(t, prefs.UpsertCalls(), 1)

	assert.True(t, got.Push.Enabled)
	assert.Equal(t, "20:30", got.Push.PreferredTime)
	assert.Equal(t, domain.FrequencyDaily, got.Push.Frequency)
	assert.Equal(t, current.Email, got.Email)
	assert.Equal(t, current.Chat, got.Chat)
	assert.False(t, got.Categories.Warnings)
	assert.True(t, got.Categories.Reminders)
	assert.Equal(t, "America/New_York", got.Timezone)
}

func TestService_UpdatePreferences_CreatesDefaultFirst(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	prefs := &prefStoreMock{
		GetFunc: func(context.Context, uuid.UUID) (*domain.NotificationPreference, error) {
			return nil, domain.ErrNotFound
		},
		InsertDefaultFunc: echoUpsert,
		UpsertFunc:        echoUpsert,
	}

	svc := NewService(newTestLogger(), prefs, nil, passthroughTx())
	got, err := svc.UpdatePreferences(ctx, UpdatePreferencesInput{
		Chat: &ChannelPatch{Frequency: ptr(domain.FrequencyMonthly)},
	})

	require.NoError(t, err)
	assert.Len(t, prefs.InsertDefaultCalls(), 1)
	assert.Equal(t, domain.FrequencyMonthly, got.Chat.Frequency)
	assert.True(t, got.Email.Enabled)
}

func TestService_UpdatePreferences_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input UpdatePreferencesInput
		field string
	}{
		{"bad frequency", UpdatePreferencesInput{Email: &ChannelPatch{Frequency: ptr(domain.Frequency("hourly"))}}, "email.frequency"},
		{"bad clock", UpdatePreferencesInput{Push: &ChannelPatch{PreferredTime: ptr("25:00")}}, "push.preferred_time"},
		{"clock without minutes", UpdatePreferencesInput{Chat: &ChannelPatch{PreferredTime: ptr("9")}}, "chat.preferred_time"},
		{"unknown zone", UpdatePreferencesInput{Timezone: ptr("Mars/Olympus")}, "timezone"},
		{"empty zone", UpdatePreferencesInput{Timezone: ptr("")}, "timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := ctxutil.WithUserID(context.Background(), uuid.New())
			svc := NewService(newTestLogger(), &prefStoreMock{}, nil, &txManagerMock{})
			_, err := svc.UpdatePreferences(ctx, tt.input)

			require.ErrorIs(t, err, domain.ErrValidation)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Errors, 1)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestService_UpdatePreferences_UpsertError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	boom := errors.New("constraint")

	prefs := &prefStoreMock{
		GetFunc: func(context.Context, uuid.UUID) (*domain.NotificationPreference, error) {
			p := domain.DefaultNotificationPreference(userID)
			return &p, nil
		},
		UpsertFunc: func(context.Context, domain.NotificationPreference) (*domain.NotificationPreference, error) {
			return nil, boom
		},
	}

	svc := NewService(newTestLogger(), prefs, nil, passthroughTx())
	_, err := svc.UpdatePreferences(ctx, UpdatePreferencesInput{Timezone: ptr("UTC")})

	require.ErrorIs(t, err, boom)
}

func TestService_ListHistory(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)
	want := []domain.NotificationHistoryEntry{{UserID: userID, Channel: domain.ChannelEmail, Status: domain.DeliverySent, SentAt: time.Now()}}

	history := &historyStoreMock{
		ListByUserFunc: func(context.Context, uuid.UUID, *domain.Channel, int) ([]domain.NotificationHistoryEntry, error) {
			return want, nil
		},
	}
	svc := NewService(newTestLogger(), nil, history, nil)

	got, err := svc.ListHistory(ctx, ptr(domain.ChannelEmail), 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.ListHistory(ctx, nil, 10_000)
	require.NoError(t, err)

	calls := history.ListByUserCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, defaultHistoryLimit, calls[0].Limit)
	assert.Equal(t, domain.ChannelEmail, *calls[0].Channel)
	assert.Equal(t, maxHistoryLimit, calls[1].Limit)
	assert.Nil(t, calls[1].Channel)
}

func TestService_ListHistory_InvalidChannel(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	svc := NewService(newTestLogger(), nil, &historyStoreMock{}, nil)

	_, err := svc.ListHistory(ctx, ptr(domain.Channel("sms")), 10)
	require.ErrorIs(t, err, domain.ErrValidation)
}
