package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserLocks hands out session-level advisory locks keyed by user. A lock
// pins one pool connection until released.
type UserLocks struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewUserLocks creates UserLocks. Locks in different namespaces never collide.
func NewUserLocks(pool *pgxpool.Pool, namespace string) *UserLocks {
	return &UserLocks{pool: pool, namespace: namespace}
}

// TryLock takes the lock for userID without waiting. ok is false when
// another session holds it. release must be called once when ok is true.
func (l *UserLocks) TryLock(ctx context.Context, userID uuid.UUID) (release func(), ok bool, err error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("postgres.TryLock: acquire: %w", err)
	}

	key := l.namespace + ":" + userID.String()
	if err := conn.QueryRow(ctx,
		`SELECT pg_try_advisory_lock(hashtextextended($1, 0))`, key,
	).Scan(&ok); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("postgres.TryLock: %w", err)
	}
	if !ok {
		conn.Release()
		return nil, false, nil
	}

	release = func() {
		uctx := context.WithoutCancel(ctx)
		if _, err := conn.Exec(uctx, `SELECT pg_advisory_unlock(hashtextextended($1, 0))`, key); err != nil {
			// Closing the session drops every lock it holds; the pool
			// discards closed connections on release.
			_ = conn.Conn().Close(uctx)
		}
		conn.Release()
	}
	return release, true, nil
}
