// Package sqlite stores books and reviews in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"bookreview/internal/book"
	"bookreview/internal/review"
	"bookreview/internal/storage"
)

const (
	driverName    = "sqlite"
	dialectSQLite = "sqlite3"
	tableBooks    = "books"
	tableReviews  = "reviews"
	colID         = "id"
	colBookID     = "book_id"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT    NOT NULL,
	author           TEXT    NOT NULL,
	publication_year INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS reviews (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	book_id     INTEGER NOT NULL REFERENCES books(id),
	text_review TEXT    NOT NULL,
	rating      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_book_id ON reviews(book_id);
`

var dialect = goqu.Dialect(dialectSQLite)

// Store is a storage.Provider backed by a SQLite database file.
type Store struct {
	db *sqlx.DB
}

var _ storage.Provider = (*Store)(nil)

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create directory: %w", err)
		}
	}

	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Acquire(ctx context.Context) (storage.Session, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquire connection: %w", err)
	}
	return &session{conn: conn}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type session struct {
	conn *sqlx.Conn
	once sync.Once
}

func (ss *session) Release() {
	ss.once.Do(func() {
		_ = ss.conn.Close()
	})
}

func (ss *session) CreateBook(ctx context.Context, nb book.NewBook) (book.Book, error) {
	query, args, err := dialect.Insert(tableBooks).
		Rows(goqu.Record{
			"title":            nb.Title,
			"author":           nb.Author,
			"publication_year": nb.PublicationYear,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("sqlite: build insert book: %w", err)
	}

	res, err := ss.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return book.Book{}, fmt.Errorf("sqlite: insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return book.Book{}, fmt.Errorf("sqlite: insert book id: %w", err)
	}

	return book.Book{
		ID:              id,
		Title:           nb.Title,
		Author:          nb.Author,
		PublicationYear: nb.PublicationYear,
	}, nil
}

func (ss *session) GetBook(ctx context.Context, id int64) (book.Book, error) {
	query, args, err := dialect.From(tableBooks).
		Select(colID, "title", "author", "publication_year").
		Where(goqu.Ex{colID: id}).
		Limit(1).
		Prepared(true).
		ToSQL()
	if err != nil {
		return book.Book{}, fmt.Errorf("sqlite: build select book: %w", err)
	}

	var b book.Book
	if err := ss.conn.GetContext(ctx, &b, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, fmt.Errorf("sqlite: select book: %w", err)
	}
	return b, nil
}

func (ss *session) ListBooks(ctx context.Context, q book.Query) ([]book.Book, error) {
	where := goqu.Ex{}
	if q.Author != nil {
		where["author"] = *q.Author
	}
	if q.PublicationYear != nil {
		where["publication_year"] = *q.PublicationYear
	}

	query, args, err := dialect.From(tableBooks).
		Select(colID, "title", "author", "publication_year").
		Where(where).
		Order(goqu.I(colID).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build list books: %w", err)
	}

	out := []book.Book{}
	if err := ss.conn.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: list books: %w", err)
	}
	return out, nil
}

func (ss *session) CreateReview(ctx context.Context, nr review.NewReview) (review.Review, error) {
	query, args, err := dialect.Insert(tableReviews).
		Rows(goqu.Record{
			colBookID:     nr.BookID,
			"text_review": nr.TextReview,
			"rating":      nr.Rating,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return review.Review{}, fmt.Errorf("sqlite: build insert review: %w", err)
	}

	res, err := ss.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return review.Review{}, fmt.Errorf("sqlite: insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return review.Review{}, fmt.Errorf("sqlite: insert review id: %w", err)
	}

	return review.Review{
		ID:         id,
		BookID:     nr.BookID,
		TextReview: nr.TextReview,
		Rating:     nr.Rating,
	}, nil
}

func (ss *session) ListReviewsByBook(ctx context.Context, bookID int64) ([]review.Review, error) {
	query, args, err := dialect.From(tableReviews).
		Select(colID, colBookID, "text_review", "rating").
		Where(goqu.Ex{colBookID: bookID}).
		Order(goqu.I(colID).Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build list reviews: %w", err)
	}

	out := []review.Review{}
	if err := ss.conn.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("sqlite: list reviews: %w", err)
	}
	return out, nil
}
