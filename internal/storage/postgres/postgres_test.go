package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"bookreview/internal/storage"
	"bookreview/internal/storage/storagetest"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("Skipping test: TEST_DB_DSN is not set")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn, 2*time.Second)
	if err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	_, err = store.pool.Exec(ctx, "TRUNCATE reviews, books RESTART IDENTITY")
	require.NoError(t, err)
	return store
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider { return setupTestStore(t) })
}

func TestStore_EnsureSchemaIsRepeatable(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, store.EnsureSchema(context.Background()))
}
