package review

import (
	"context"

	"bookreview/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=review

// Repository defines the contract for review data storage.
type Repository interface {
	Create(ctx context.Context, nr NewReview) (Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]Review, error)
}

// BookFinder resolves the parent book of a review.
type BookFinder interface {
	Get(ctx context.Context, id int64) (book.Book, error)
}

// Notifier schedules the confirmation for a persisted review. It must not block.
type Notifier interface {
	Schedule(bookID int64, textReview string)
}
