// Package storage scopes a backend connection to a single HTTP request.
//
// A Provider hands out Sessions. Middleware acquires one Session per request,
// carries it in the request context and releases it when the handler returns,
// whether normally, with an error response or by panicking. BookRepo and
// ReviewRepo let the services reach that Session through their own ports.
package storage

import (
	"context"
	"errors"

	"bookreview/internal/book"
	"bookreview/internal/review"
)

// ErrNoSession is returned when a repository is used outside a request scope.
var ErrNoSession = errors.New("storage: no session in context")

// Session is a borrowed connection to the backing store. Every write is committed
// before the method returns. Reads return fresh copies.
type Session interface {
	CreateBook(ctx context.Context, nb book.NewBook) (book.Book, error)
	GetBook(ctx context.Context, id int64) (book.Book, error)
	ListBooks(ctx context.Context, q book.Query) ([]book.Book, error)
	CreateReview(ctx context.Context, nr review.NewReview) (review.Review, error)
	ListReviewsByBook(ctx context.Context, bookID int64) ([]review.Review, error)
	// Release returns the connection. It is safe to call more than once.
	Release()
}

// Provider opens sessions against one backend.
type Provider interface {
	Acquire(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close() error
}

type sessionKey struct{}

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (Session, error) {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok && s != nil {
		return s, nil
	}
	return nil, ErrNoSession
}

// WithSession acquires a session, runs fn with it and releases it on every exit path.
func WithSession(ctx context.Context, p Provider, fn func(ctx context.Context) error) error {
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.Release()
	return fn(ContextWithSession(ctx, s))
}
