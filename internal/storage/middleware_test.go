package storage_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/storage"
	"bookreview/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingProvider struct{}

func (failingProvider) Acquire(context.Context) (storage.Session, error) {
	return nil, errors.New("pool exhausted")
}
func (failingProvider) Ping(context.Context) error { return nil }
func (failingProvider) Close() error               { return nil }

func TestMiddleware_ReleasesSessionOnEveryPath(t *testing.T) {
	store := memory.New()
	mw := storage.Middleware(store, zap.NewNop())

	t.Run("normal return", func(t *testing.T) {
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := storage.SessionFrom(r.Context())
			assert.NoError(t, err)
			assert.Equal(t, int64(1), store.OpenSessions())
			w.WriteHeader(http.StatusNoContent)
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, int64(0), store.OpenSessions())
	})

	t.Run("panic", func(t *testing.T) {
		h := mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("handler exploded")
		}))

		assert.Panics(t, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
		assert.Equal(t, int64(0), store.OpenSessions())
	})
}

func TestMiddleware_AcquireFailure(t *testing.T) {
	called := false
	h := storage.Middleware(failingProvider{}, zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestRepos_WithoutSession(t *testing.T) {
	ctx := context.Background()

	_, err := storage.BookRepo{}.Create(ctx, book.NewBook{Title: "T"})
	assert.ErrorIs(t, err, storage.ErrNoSession)

	_, err = storage.BookRepo{}.List(ctx, book.Query{})
	assert.ErrorIs(t, err, storage.ErrNoSession)

	_, err = storage.ReviewRepo{}.ListByBook(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNoSession)
}

func TestRepos_DelegateToSession(t *testing.T) {
	store := memory.New()
	err := storage.WithSession(context.Background(), store, func(ctx context.Context) error {
		b, err := storage.BookRepo{}.Create(ctx, book.NewBook{Title: "T", Author: "A", PublicationYear: 2020})
		require.NoError(t, err)

		got, err := storage.BookRepo{}.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b, got)

		r, err := storage.ReviewRepo{}.Create(ctx, review.NewReview{BookID: b.ID, TextReview: "ok", Rating: 3})
		require.NoError(t, err)

		list, err := storage.ReviewRepo{}.ListByBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []review.Review{r}, list)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.OpenSessions())
}
