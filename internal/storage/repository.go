package storage

import (
	"context"

	"bookreview/internal/book"
	"bookreview/internal/review"
)

var (
	_ book.Repository   = BookRepo{}
	_ review.Repository = ReviewRepo{}
)

// BookRepo implements book.Repository on the session carried by ctx.
type BookRepo struct{}

func (BookRepo) Create(ctx context.Context, nb book.NewBook) (book.Book, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return book.Book{}, err
	}
	return s.CreateBook(ctx, nb)
}

func (BookRepo) GetByID(ctx context.Context, id int64) (book.Book, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return book.Book{}, err
	}
	return s.GetBook(ctx, id)
}

func (BookRepo) List(ctx context.Context, q book.Query) ([]book.Book, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListBooks(ctx, q)
}

// ReviewRepo implements review.Repository on the session carried by ctx.
type ReviewRepo struct{}

func (ReviewRepo) Create(ctx context.Context, nr review.NewReview) (review.Review, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return review.Review{}, err
	}
	return s.CreateReview(ctx, nr)
}

func (ReviewRepo) ListByBook(ctx context.Context, bookID int64) ([]review.Review, error) {
	s, err := SessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListReviewsByBook(ctx, bookID)
}
