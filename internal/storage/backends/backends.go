// Package backends opens a storage.Provider from a DSN.
package backends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookreview/internal/storage"
	"bookreview/internal/storage/memory"
	"bookreview/internal/storage/postgres"
	"bookreview/internal/storage/sqlite"
)

// Open picks a backend from the DSN scheme: memory://, postgres:// (or
// postgresql://), sqlite://path or file:path.
func Open(ctx context.Context, dsn string, timeout time.Duration) (storage.Provider, error) {
	switch {
	case dsn == "memory://" || dsn == "memory":
		return memory.New(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		store, err := postgres.New(ctx, dsn, timeout)
		if err != nil {
			return nil, err
		}
		return store, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		path := strings.TrimPrefix(strings.TrimPrefix(dsn, "sqlite://"), "file:")
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DSN scheme: %q", dsn)
	}
}
