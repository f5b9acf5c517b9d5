package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrate_RecordsSchemaVersion(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	current, err := ts.GetCurrentSchemaVersion()
	require.NoError(t, err)
	require.Equal(t, "0.2.1", current)

	recorded, err := ts.GetSchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, current, recorded)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	require.NoError(t, ts.Migrate(ctx))
	require.NoError(t, ts.Migrate(ctx))

	recorded, err := ts.GetSchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.2.1", recorded)
}
