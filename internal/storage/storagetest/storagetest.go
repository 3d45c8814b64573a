// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"

	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/storage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty provider. It is called once per subtest.
type Factory func(t *testing.T) storage.Provider

func acquire(t *testing.T, newProvider Factory) storage.Session {
	t.Helper()
	p := newProvider(t)
	s, err := p.Acquire(context.Background())
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func ptr[T any](v T) *T { return &v }

// Run exercises a backend against the shared contract.
func Run(t *testing.T, newProvider Factory) {
	ctx := context.Background()

	t.Run("create book echoes fields and assigns increasing ids", func(t *testing.T) {
		s := acquire(t, newProvider)

		first, err := s.CreateBook(ctx, book.NewBook{Title: "T", Author: "A", PublicationYear: 2020})
		require.NoError(t, err)
		assert.Equal(t, "T", first.Title)
		assert.Equal(t, "A", first.Author)
		assert.Equal(t, 2020, first.PublicationYear)
		assert.Positive(t, first.ID)

		dup, err := s.CreateBook(ctx, book.NewBook{Title: "T", Author: "A", PublicationYear: 2020})
		require.NoError(t, err)
		assert.Greater(t, dup.ID, first.ID)

		got, err := s.GetBook(ctx, dup.ID)
		require.NoError(t, err)
		assert.Equal(t, dup, got)
	})

	t.Run("get unknown book", func(t *testing.T) {
		s := acquire(t, newProvider)

		_, err := s.GetBook(ctx, 424242)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("list books filters by conjunction", func(t *testing.T) {
		s := acquire(t, newProvider)

		seed := []book.NewBook{
			{Title: "One", Author: "X", PublicationYear: 2000},
			{Title: "Two", Author: "Y", PublicationYear: 2000},
			{Title: "Three", Author: "X", PublicationYear: 2010},
		}
		var created []book.Book
		for _, nb := range seed {
			b, err := s.CreateBook(ctx, nb)
			require.NoError(t, err)
			created = append(created, b)
		}

		all, err := s.ListBooks(ctx, book.Query{})
		require.NoError(t, err)
		if diff := cmp.Diff(created, all); diff != "" {
			t.Errorf("list all mismatch (-want +got):\n%s", diff)
		}

		byAuthor, err := s.ListBooks(ctx, book.Query{Author: ptr("X")})
		require.NoError(t, err)
		if diff := cmp.Diff([]book.Book{created[0], created[2]}, byAuthor); diff != "" {
			t.Errorf("author filter mismatch (-want +got):\n%s", diff)
		}

		both, err := s.ListBooks(ctx, book.Query{Author: ptr("X"), PublicationYear: ptr(2010)})
		require.NoError(t, err)
		if diff := cmp.Diff([]book.Book{created[2]}, both); diff != "" {
			t.Errorf("conjunction mismatch (-want +got):\n%s", diff)
		}

		none, err := s.ListBooks(ctx, book.Query{Author: ptr("Nobody")})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("reviews are listed per book in insertion order", func(t *testing.T) {
		s := acquire(t, newProvider)

		b, err := s.CreateBook(ctx, book.NewBook{Title: "B", Author: "A", PublicationYear: 1999})
		require.NoError(t, err)
		other, err := s.CreateBook(ctx, book.NewBook{Title: "C", Author: "A", PublicationYear: 1999})
		require.NoError(t, err)

		r1, err := s.CreateReview(ctx, review.NewReview{BookID: b.ID, TextReview: "first", Rating: 4})
		require.NoError(t, err)
		r2, err := s.CreateReview(ctx, review.NewReview{BookID: b.ID, TextReview: "second", Rating: 2})
		require.NoError(t, err)
		assert.Equal(t, b.ID, r1.BookID)
		assert.Greater(t, r2.ID, r1.ID)

		got, err := s.ListReviewsByBook(ctx, b.ID)
		require.NoError(t, err)
		if diff := cmp.Diff([]review.Review{r1, r2}, got); diff != "" {
			t.Errorf("reviews mismatch (-want +got):\n%s", diff)
		}

		empty, err := s.ListReviewsByBook(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, empty)

		unknown, err := s.ListReviewsByBook(ctx, 987654)
		require.NoError(t, err)
		assert.Empty(t, unknown)
	})

	t.Run("review for missing book is rejected by the store", func(t *testing.T) {
		s := acquire(t, newProvider)

		_, err := s.CreateReview(ctx, review.NewReview{BookID: 555555, TextReview: "x", Rating: 3})
		assert.Error(t, err)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		p := newProvider(t)
		s, err := p.Acquire(ctx)
		require.NoError(t, err)

		s.Release()
		assert.NotPanics(t, s.Release)
	})

	t.Run("writes are visible to later sessions", func(t *testing.T) {
		p := newProvider(t)

		var id int64
		err := storage.WithSession(ctx, p, func(ctx context.Context) error {
			s, err := storage.SessionFrom(ctx)
			if err != nil {
				return err
			}
			b, err := s.CreateBook(ctx, book.NewBook{Title: "Persisted", Author: "P", PublicationYear: 1})
			id = b.ID
			return err
		})
		require.NoError(t, err)

		err = storage.WithSession(ctx, p, func(ctx context.Context) error {
			s, err := storage.SessionFrom(ctx)
			if err != nil {
				return err
			}
			b, err := s.GetBook(ctx, id)
			if err != nil {
				return err
			}
			assert.Equal(t, "Persisted", b.Title)
			return nil
		})
		require.NoError(t, err)
	})
}
