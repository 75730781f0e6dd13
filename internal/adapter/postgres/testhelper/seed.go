package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with an email and a push token but no chat id.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	push := "push-" + suffix
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		PushToken: &push,
		Locale:    "en",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, push_token, chat_id, locale, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.PushToken, user.ChatID, user.Locale, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedBalance sets the token balance of userID.
func SeedBalance(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, balance int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO token_balances (user_id, balance) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()`,
		userID, balance,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedBalance: %v", err)
	}
}

// SeedPreference stores pref as the user's notification preference row.
func SeedPreference(t *testing.T, pool *pgxpool.Pool, pref domain.NotificationPreference) {
	t.Helper()

	enc := func(v any) []byte {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("testhelper: SeedPreference marshal: %v", err)
		}
		return b
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO notification_preferences (user_id, email, push, chat, categories, timezone)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		pref.UserID, enc(pref.Email), enc(pref.Push), enc(pref.Chat), enc(pref.Categories), pref.Timezone,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPreference: %v", err)
	}
}

// SeedHistory appends a notification history row with an explicit sent_at.
func SeedHistory(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, ch domain.Channel, status domain.DeliveryStatus, sentAt time.Time) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO notification_history (user_id, channel, type, title, message, status, sent_at)
		 VALUES ($1, $2, 'reminder', 'seed', 'seed', $3, $4)`,
		userID, string(ch), string(status), sentAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedHistory: %v", err)
	}
}

// SeedHealthEntry inserts a journal entry for userID on date.
func SeedHealthEntry(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, date time.Time, sleep domain.SleepQuality, mood domain.Mood, symptoms ...domain.Symptom) domain.HealthEntry {
	t.Helper()

	syms := make([]string, len(symptoms))
	for i, s := range symptoms {
		syms[i] = string(s)
	}

	e := domain.HealthEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         date,
		TimeOfDay:    domain.TimeOfDayMorning,
		SleepQuality: sleep,
		Mood:         mood,
		Symptoms:     symptoms,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO health_entries (id, user_id, entry_date, time_of_day, sleep_quality, mood, symptoms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		e.ID, e.UserID, e.Date, string(e.TimeOfDay), string(e.SleepQuality), string(e.Mood), syms,
	).Scan(&e.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedHealthEntry: %v", err)
	}

	return e
}
