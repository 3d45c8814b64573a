// Package postgres is the PostgreSQL storage backend. Each session holds
// one pooled connection for the lifetime of a request.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id               BIGSERIAL PRIMARY KEY,
	title            TEXT    NOT NULL,
	author           TEXT    NOT NULL,
	publication_year INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reviews (
	id          BIGSERIAL PRIMARY KEY,
	book_id     BIGINT  NOT NULL REFERENCES books(id),
	text_review TEXT    NOT NULL,
	rating      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_book_id ON reviews(book_id);
`

// DefaultTimeout bounds a single query when none is configured.
const DefaultTimeout = 3 * time.Second

type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

var _ storage.Provider = (*Store)(nil)

// New connects to dsn, verifies the connection and creates missing tables.
func New(ctx context.Context, dsn string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	s := &Store{pool: pool, timeout: timeout}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// EnsureSchema creates the books and reviews tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Acquire(ctx context.Context) (storage.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquire connection: %w", err)
	}
	return &session{conn: conn, timeout: s.timeout}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

type session struct {
	conn    *pgxpool.Conn
	timeout time.Duration
	once    sync.Once
}

func (ss *session) Release() {
	ss.once.Do(ss.conn.Release)
}

func (ss *session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, ss.timeout)
}

func (ss *session) CreateBook(ctx context.Context, nb book.NewBook) (book.Book, error) {
	const query = `
		INSERT INTO books (title, author, publication_year)
		VALUES ($1, $2, $3)
		RETURNING id, title, author, publication_year`

	ctx, cancel := ss.withTimeout(ctx)
	defer cancel()

	var b book.Book
	err := ss.conn.QueryRow(ctx, query, nb.Title, nb.Author, nb.PublicationYear).
		Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear)
	if err != nil {
		return book.Book{}, fmt.Errorf("postgres: insert book: %w", err)
	}
	return b, nil
}

func (ss *session) GetBook(ctx context.Context, id int64) (book.Book, error) {
	const query = `
		SELECT id, title, author, publication_year
		FROM books
		WHERE id = $1
		LIMIT 1`

	ctx, cancel := ss.withTimeout(ctx)
	defer cancel()

	var b book.Book
	err := ss.conn.QueryRow(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, fmt.Errorf("postgres: select book: %w", err)
	}
	return b, nil
}

func (ss *session) ListBooks(ctx context.Context, q book.Query) ([]book.Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Author != nil {
		clauses = append(clauses, fmt.Sprintf("author = $%d", argn))
		args = append(args, *q.Author)
		argn++
	}

	if q.PublicationYear != nil {
		clauses = append(clauses, fmt.Sprintf("publication_year = $%d", argn))
		args = append(args, *q.PublicationYear)
	}

	query := fmt.Sprintf(`
		SELECT id, title, author, publication_year
		FROM books
		WHERE %s
		ORDER BY id`, strings.Join(clauses, " AND "))

	ctx, cancel := ss.withTimeout(ctx)
	defer cancel()

	rows, err := ss.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list books: %w", err)
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear); err != nil {
			return nil, fmt.Errorf("postgres: scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (ss *session) CreateReview(ctx context.Context, nr review.NewReview) (review.Review, error) {
	const query = `
		INSERT INTO reviews (book_id, text_review, rating)
		VALUES ($1, $2, $3)
		RETURNING id, book_id, text_review, rating`

	ctx, cancel := ss.withTimeout(ctx)
	defer cancel()

	var r review.Review
	err := ss.conn.QueryRow(ctx, query, nr.BookID, nr.TextReview, nr.Rating).
		Scan(&r.ID, &r.BookID, &r.TextReview, &r.Rating)
	if err != nil {
		return review.Review{}, fmt.Errorf("postgres: insert review: %w", err)
	}
	return r, nil
}

func (ss *session) ListReviewsByBook(ctx context.Context, bookID int64) ([]review.Review, error) {
	const query = `
		SELECT id, book_id, text_review, rating
		FROM reviews
		WHERE book_id = $1
		ORDER BY id`

	ctx, cancel := ss.withTimeout(ctx)
	defer cancel()

	rows, err := ss.conn.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list reviews: %w", err)
	}
	defer rows.Close()

	out := []review.Review{}
	for rows.Next() {
		var r review.Review
		if err := rows.Scan(&r.ID, &r.BookID, &r.TextReview, &r.Rating); err != nil {
			return nil, fmt.Errorf("postgres: scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
