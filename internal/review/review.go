package review

import (
	"errors"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrBookNotFound is returned when a review targets a book that does not exist.
	ErrBookNotFound = errors.New("book not found")
	// ErrInvalidRating is returned for ratings outside MinRating..MaxRating.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is a rated text attached to exactly one book.
type Review struct {
	ID         int64  `json:"id" db:"id"`
	BookID     int64  `json:"book_id" db:"book_id"`
	TextReview string `json:"text_review" db:"text_review"`
	Rating     int    `json:"rating" db:"rating"`
}

// NewReview is a review before it is stored. BookID comes from the path.
type NewReview struct {
	BookID     int64  `json:"-"`
	TextReview string `json:"text_review"`
	Rating     int    `json:"rating"`
}
