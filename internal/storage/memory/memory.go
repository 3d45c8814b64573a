// Package memory is an in-process storage backend for tests and local runs.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/storage"
)

var errReleased = errors.New("memory: session already released")

// Store keeps books and reviews in insertion order. Identifiers start at 1.
type Store struct {
	sync.RWMutex
	books        []book.Book
	bookIndex    map[int64]int
	reviews      []review.Review
	nextBookID   int64
	nextReviewID int64
	open         atomic.Int64
}

var _ storage.Provider = (*Store)(nil)

// New creates a new memory store.
func New() *Store {
	return &Store{
		bookIndex:    map[int64]int{},
		nextBookID:   1,
		nextReviewID: 1,
	}
}

func (s *Store) Acquire(ctx context.Context) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.open.Add(1)
	return &session{store: s}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

// OpenSessions reports how many acquired sessions have not been released.
func (s *Store) OpenSessions() int64 {
	return s.open.Load()
}

type session struct {
	store    *Store
	released atomic.Bool
}

func (ss *session) Release() {
	if ss.released.CompareAndSwap(false, true) {
		ss.store.open.Add(-1)
	}
}

func (ss *session) check(ctx context.Context) error {
	if ss.released.Load() {
		return errReleased
	}
	return ctx.Err()
}

func (ss *session) CreateBook(ctx context.Context, nb book.NewBook) (book.Book, error) {
	if err := ss.check(ctx); err != nil {
		return book.Book{}, err
	}
	s := ss.store
	s.Lock()
	defer s.Unlock()

	b := book.Book{
		ID:              s.nextBookID,
		Title:           nb.Title,
		Author:          nb.Author,
		PublicationYear: nb.PublicationYear,
	}
	s.nextBookID++
	s.bookIndex[b.ID] = len(s.books)
	s.books = append(s.books, b)
	return b, nil
}

func (ss *session) GetBook(ctx context.Context, id int64) (book.Book, error) {
	if err := ss.check(ctx); err != nil {
		return book.Book{}, err
	}
	s := ss.store
	s.RLock()
	defer s.RUnlock()

	i, ok := s.bookIndex[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return s.books[i], nil
}

func (ss *session) ListBooks(ctx context.Context, q book.Query) ([]book.Book, error) {
	if err := ss.check(ctx); err != nil {
		return nil, err
	}
	s := ss.store
	s.RLock()
	defer s.RUnlock()

	out := []book.Book{}
	for _, b := range s.books {
		if q.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (ss *session) CreateReview(ctx context.Context, nr review.NewReview) (review.Review, error) {
	if err := ss.check(ctx); err != nil {
		return review.Review{}, err
	}
	s := ss.store
	s.Lock()
	defer s.Unlock()

	if _, ok := s.bookIndex[nr.BookID]; !ok {
		return review.Review{}, fmt.Errorf("memory: foreign key violation: book %d does not exist", nr.BookID)
	}

	r := review.Review{
		ID:         s.nextReviewID,
		BookID:     nr.BookID,
		TextReview: nr.TextReview,
		Rating:     nr.Rating,
	}
	s.nextReviewID++
	s.reviews = append(s.reviews, r)
	return r, nil
}

func (ss *session) ListReviewsByBook(ctx context.Context, bookID int64) ([]review.Review, error) {
	if err := ss.check(ctx); err != nil {
		return nil, err
	}
	s := ss.store
	s.RLock()
	defer s.RUnlock()

	out := []review.Review{}
	for _, r := range s.reviews {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	return out, nil
}
