package memory

import (
	"context"
	"sync"
	"testing"

	"bookreview/internal/book"
	"bookreview/internal/storage"
	"bookreview/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider { return New() })
}

func TestStore_ReleasedSessionRejectsCalls(t *testing.T) {
	store := New()
	s, err := store.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.OpenSessions())

	s.Release()
	assert.Equal(t, int64(0), store.OpenSessions())

	_, err = s.CreateBook(context.Background(), book.NewBook{Title: "T"})
	assert.ErrorIs(t, err, errReleased)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	store := New()
	s, err := store.Acquire(context.Background())
	require.NoError(t, err)
	defer s.Release()

	_, err = s.CreateBook(context.Background(), book.NewBook{Title: "Orig", Author: "A", PublicationYear: 1})
	require.NoError(t, err)

	list, err := s.ListBooks(context.Background(), book.Query{})
	require.NoError(t, err)
	list[0].Title = "Mutated"

	again, err := s.GetBook(context.Background(), list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Orig", again.Title)
}

func TestStore_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	store := New()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = storage.WithSession(context.Background(), store, func(ctx context.Context) error {
				b, err := storage.BookRepo{}.Create(ctx, book.NewBook{Title: "T", Author: "A", PublicationYear: 1})
				if err == nil {
					ids <- b.ID
				}
				return err
			})
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, int64(0), store.OpenSessions())
}
