package backends

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bookreview/internal/storage/memory"
	"bookreview/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name string
		dsn  string
		want interface{}
	}{
		{"memory", "memory://", &memory.Store{}},
		{"sqlite scheme", "sqlite://" + filepath.Join(dir, "a.db"), &sqlite.Store{}},
		{"file scheme", "file:" + filepath.Join(dir, "b.db"), &sqlite.Store{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(ctx, tt.dsn, time.Second)
			require.NoError(t, err)
			defer p.Close()

			assert.IsType(t, tt.want, p)
			assert.NoError(t, p.Ping(ctx))
		})
	}
}

func TestOpen_UnknownScheme(t *testing.T) {
	p, err := Open(context.Background(), "mysql://root@localhost/books", time.Second)
	assert.Error(t, err)
	assert.Nil(t, p)
}
