package review

import (
	"context"
	"errors"
	"fmt"

	"bookreview/internal/book"

	"go.opentelemetry.io/otel"
)

const tracerID = "review-service"

// Service provides review-related business logic.
type Service struct {
	repo     Repository
	books    BookFinder
	notifier Notifier
}

func NewService(repo Repository, books BookFinder, notifier Notifier) *Service {
	return &Service{repo: repo, books: books, notifier: notifier}
}

// AddReview checks that the book exists, stores the review and schedules its
// confirmation.
func (s *Service) AddReview(ctx context.Context, nr NewReview) (Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Service/AddReview")
	defer span.End()

	if nr.Rating < MinRating || nr.Rating > MaxRating {
		return Review{}, ErrInvalidRating
	}

	if _, err := s.books.Get(ctx, nr.BookID); err != nil {
		if errors.Is(err, book.ErrNotFound) {
			return Review{}, fmt.Errorf("%w: %d", ErrBookNotFound, nr.BookID)
		}
		return Review{}, fmt.Errorf("lookup book %d: %w", nr.BookID, err)
	}

	created, err := s.repo.Create(ctx, nr)
	if err != nil {
		return Review{}, fmt.Errorf("create review: %w", err)
	}

	s.notifier.Schedule(created.BookID, created.TextReview)
	return created, nil
}

// List returns the reviews of a book in insertion order. An unknown book has no
// reviews, so the result is empty rather than an error.
func (s *Service) List(ctx context.Context, bookID int64) ([]Review, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Service/List")
	defer span.End()

	reviews, err := s.repo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}
