package reconciliation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	postgres "github.com/heartmarshall/wellnote-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/reconciliation"
	"github.com/heartmarshall/wellnote-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/wellnote-backend/internal/domain"
)

func TestRepo_Record_SurvivesRollback(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := reconciliation.New(pool)
	tm := postgres.NewTxManager(pool)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool)

	rollback := errors.New("rollback")
	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		_, err := repo.Record(ctx, domain.ReconciliationRecord{
			UserID:        user.ID,
			ActionType:    domain.ActionHealthReport,
			ProviderUnits: 400,
			Amount:        800,
			Reason:        domain.ReconcileInsufficientAfterCall,
			Detail:        "balance 100",
		})
		require.NoError(t, err)
		return rollback
	})
	require.ErrorIs(t, err, rollback)

	reason := domain.ReconcileInsufficientAfterCall
	got, err := repo.List(ctx, &reason, 100)
	require.NoError(t, err)

	var found *domain.ReconciliationRecord
	for i := range got {
		if got[i].UserID == user.ID {
			found = &got[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, int64(800), found.Amount)
	assert.Equal(t, domain.ActionHealthReport, found.ActionType)
	assert.Equal(t, "balance 100", found.Detail)
}
