package book

import (
	"context"

	"go.opentelemetry.io/otel"
)

const tracerID = "book-service"

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddBook stores a new book. Duplicate titles are permitted.
func (s *Service) AddBook(ctx context.Context, nb NewBook) (Book, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Service/AddBook")
	defer span.End()

	return s.repo.Create(ctx, nb)
}

// List returns the books matching every filter set on q.
func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Service/List")
	defer span.End()

	books, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get returns a book by its identifier.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Service/Get")
	defer span.End()

	return s.repo.GetByID(ctx, id)
}
