package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a book entity.
type Book struct {
	ID              int64  `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	PublicationYear int    `json:"publication_year" db:"publication_year"`
}

// NewBook holds the fields supplied when a book is created.
type NewBook struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
}

// Query defines filters for listing books. Nil fields match everything.
type Query struct {
	Author          *string
	PublicationYear *int
}

// Matches reports whether b satisfies every filter set on q.
func (q Query) Matches(b Book) bool {
	if q.Author != nil && b.Author != *q.Author {
		return false
	}
	if q.PublicationYear != nil && b.PublicationYear != *q.PublicationYear {
		return false
	}
	return true
}
