package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_NilPool(t *testing.T) {
	db := NewDatabaseFromPool(nil)
	assert.ErrorIs(t, db.Health(context.Background()), ErrNotInitialized)

	var nilDB *Database
	assert.ErrorIs(t, nilDB.Health(context.Background()), ErrNotInitialized)
}

func TestInitSchema_Idempotent(t *testing.T) {
	WithTestDB(t, func(tdb *TestDB) {
		db := NewDatabaseFromPool(tdb.Pool)
		ctx := context.Background()

		require.NoError(t, db.InitSchema(ctx))
		require.NoError(t, db.InitSchema(ctx))
		require.NoError(t, db.Health(ctx))
	})
}

func TestTrackingNumberUniqueConstraint(t *testing.T) {
	WithTestDB(t, func(tdb *TestDB) {
		_, err := tdb.CreateTestTracking("TRKDUPLICATE01")
		require.NoError(t, err)

		_, err = tdb.CreateTestTracking("TRKDUPLICATE01")
		require.Error(t, err)
	})
}
