package usage_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/usage"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

func newRepo(t *testing.T) (*usage.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return usage.New(pool), pool
}

func entry(userID uuid.UUID, action domain.ActionType, before, deducted int64) domain.UsageLedgerEntry {
	return domain.UsageLedgerEntry{
		UserID:        userID,
		ActionType:    action,
		ProviderUnits: deducted / 2,
		Deducted:      deducted,
		BalanceBefore: before,
		BalanceAfter:  before - deducted,
		Metadata:      map[string]any{"model": "stub"},
	}
}

func TestRepo_Append_And_List(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool)

	first, err := repo.Append(ctx, entry(user.ID, domain.ActionJournalInsight, 1000, 200))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = repo.Append(ctx, entry(user.ID, domain.ActionChatReply, 800, 100))
	require.NoError(t, err)

	got, err := repo.ListByUser(ctx, user.ID, domain.UsageFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionChatReply, got[0].ActionType)
	assert.Equal(t, int64(700), got[0].BalanceAfter)
	assert.Equal(t, "stub", got[1].Metadata["model"])
	for _, e := range got {
		assert.True(t, e.IsConsistent())
	}

	n, err := repo.CountByUser(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	chat := domain.ActionChatReply
	n, err = repo.CountByUser(ctx, user.ID, &chat)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRepo_ListByUser_FilterAndPaging(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool)

	balance := int64(1000)
	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, entry(user.ID, domain.ActionHealthReport, balance, 100))
		require.NoError(t, err)
		balance -= 100
	}
	_, err := repo.Append(ctx, entry(user.ID, domain.ActionDataAnalysis, balance, 100))
	require.NoError(t, err)

	action := domain.ActionHealthReport
	got, err := repo.ListByUser(ctx, user.ID, domain.UsageFilter{ActionType: &action})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	page, err := repo.ListByUser(ctx, user.ID, domain.UsageFilter{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestRepo_Append_Inconsistent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	user := testhelper.SeedUser(t, pool)

	bad := entry(user.ID, domain.ActionJournalInsight, 100, 50)
	bad.BalanceAfter = 60

	_, err := repo.Append(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_Append_UnknownUser(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.Append(context.Background(), entry(uuid.New(), domain.ActionJournalInsight, 100, 50))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
