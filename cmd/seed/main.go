package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"bookreview/internal/book"
	"bookreview/internal/config"
	"bookreview/internal/logging"
	"bookreview/internal/review"
	"bookreview/internal/storage"
	"bookreview/internal/storage/backends"

	"go.uber.org/zap"
)

func main() {
	var (
		books   = flag.Int("books", 100, "Number of books to create")
		reviews = flag.Int("reviews", 3, "Maximum reviews per book")
	)
	flag.Parse()

	if err := run(*books, *reviews); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(bookCount, maxReviews int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := backends.Open(ctx, cfg.DatabaseDSN, cfg.DatabaseTimeout)
	if err != nil {
		return fmt.Errorf("open storage (%s): %w", config.RedactDSN(cfg.DatabaseDSN), err)
	}
	defer store.Close()

	logger.Info("seeding", zap.Int("books", bookCount), zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)))

	var reviewTotal int
	err = storage.WithSession(ctx, store, func(ctx context.Context) error {
		s, err := storage.SessionFrom(ctx)
		if err != nil {
			return err
		}
		created, err := seed(ctx, s, rand.New(rand.NewSource(1)), bookCount, maxReviews)
		reviewTotal = created
		return err
	})
	if err != nil {
		return err
	}

	logger.Info("seed complete", zap.Int("books", bookCount), zap.Int("reviews", reviewTotal))
	return nil
}

// seed inserts bookCount books with up to maxReviews reviews each and
// returns the number of reviews written.
func seed(ctx context.Context, s storage.Session, rng *rand.Rand, bookCount, maxReviews int) (int, error) {
	var reviewTotal int
	for i := 0; i < bookCount; i++ {
		b, err := s.CreateBook(ctx, book.NewBook{
			Title:           fmt.Sprintf("%s of %s", randomWord(rng), randomWord(rng)),
			Author:          authors[rng.Intn(len(authors))],
			PublicationYear: 1950 + rng.Intn(75),
		})
		if err != nil {
			return reviewTotal, fmt.Errorf("insert book %d: %w", i+1, err)
		}

		n := 0
		if maxReviews > 0 {
			n = rng.Intn(maxReviews + 1)
		}
		for j := 0; j < n; j++ {
			_, err := s.CreateReview(ctx, review.NewReview{
				BookID:     b.ID,
				TextReview: fmt.Sprintf("A story about %s.", randomWord(rng)),
				Rating:     review.MinRating + rng.Intn(review.MaxRating),
			})
			if err != nil {
				return reviewTotal, fmt.Errorf("insert review for book %d: %w", b.ID, err)
			}
			reviewTotal++
		}
	}
	return reviewTotal, nil
}

var authors = []string{
	"Ursula K. Le Guin", "Octavia E. Butler", "Italo Calvino", "Toni Morrison",
	"Stanislaw Lem", "Jorge Luis Borges", "Chinua Achebe", "Kazuo Ishiguro",
}

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rng.Intn(len(words))]
}
