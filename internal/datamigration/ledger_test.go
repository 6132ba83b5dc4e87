package datamigration

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/consensuslabs/pavilion-network/datamigrate/internal/errors"
	"github.com/consensuslabs/pavilion-network/datamigrate/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func TestLedger_MarkAndLoad(t *testing.T) {
	ctx := context.Background()
	db := testhelper.NewTestDB(t, &MigrationRecord{})
	ledger := NewLedger(db)
	ledger.now = fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	names, err := ledger.LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, ledger.MarkCompleted(ctx, nil, "b"))
	require.NoError(t, ledger.MarkCompleted(ctx, nil, "a"))

	names, err = ledger.LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, names)

	records, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.True(t, records[0].Timestamp.Before(records[1].Timestamp))
}

func TestLedger_MarkCompletedDuplicate(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(testhelper.NewTestDB(t, &MigrationRecord{}))

	require.NoError(t, ledger.MarkCompleted(ctx, nil, "once"))

	err := ledger.MarkCompleted(ctx, nil, "once")
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateMigration(err))

	var dup *apperrors.DuplicateMigrationError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "once", dup.Name)
}

func TestLedger_MarkCompletedRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db := testhelper.NewTestDB(t, &MigrationRecord{})
	ledger := NewLedger(db)

	errAbort := errors.New("abort")
	err := db.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, ledger.MarkCompleted(ctx, tx, "rolled-back"))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	names, err := ledger.LoadCompletedNames(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, "rolled-back")
}

func TestLedger_StorageError(t *testing.T) {
	// No ledger table.
	ledger := NewLedger(testhelper.NewTestDB(t))

	_, err := ledger.LoadCompletedNames(context.Background())
	var serr *apperrors.StorageError
	require.ErrorAs(t, err, &serr)
}
