// Package healthentry reads journal health entries from PostgreSQL.
package healthentry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

// Repo provides read access to health entries.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new health entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listRecentSQL = `
SELECT id, user_id, entry_date, time_of_day, sleep_quality, mood, symptoms, created_at
  FROM health_entries
 WHERE user_id = $1
 ORDER BY entry_date DESC, created_at DESC
 LIMIT $2`

// ListRecent returns up to limit entries, most recent first.
func (r *Repo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.HealthEntry, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listRecentSQL, userID, limit)
	if err != nil {
		return nil, postgres.MapError(err, "health_entry", userID.String())
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HealthEntry, error) {
		var (
			e           domain.HealthEntry
			timeOfDay   string
			sleep, mood *string
			symptoms    []string
		)
		if err := row.Scan(&e.ID, &e.UserID, &e.Date, &timeOfDay, &sleep, &mood, &symptoms, &e.CreatedAt); err != nil {
			return e, err
		}
		e.TimeOfDay = domain.TimeOfDay(timeOfDay)
		if sleep != nil {
			e.SleepQuality = domain.SleepQuality(*sleep)
		}
		if mood != nil {
			e.Mood = domain.Mood(*mood)
		}
		e.Symptoms = make([]domain.Symptom, len(symptoms))
		for i, s := range symptoms {
			e.Symptoms[i] = domain.Symptom(s)
		}
		return e, nil
	})
	if err != nil {
		return nil, postgres.MapError(err, "health_entry", userID.String())
	}
	return entries, nil
}
