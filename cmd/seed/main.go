// Package main seeds an empty catalog with sample books, votes, reviews and
// comments so the front end has something to show during development.
//
// It accepts the same flags and environment as the server:
//
//	go run ./cmd/seed --store sqlite --data-path ./data/books.db
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/di/providers"
	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/store"
)

type sampleBook struct {
	book     domain.NewBook
	status   domain.Status
	voters   []string
	review   *domain.NewReview
	comments []domain.NewComment
}

var samples = []sampleBook{
	{
		book: domain.NewBook{
			Title:        "The Left Hand of Darkness",
			Author:       "Ursula K. Le Guin",
			Synopsis:     "An envoy visits a planet whose people have no fixed sex.",
			Rating:       4.1,
			RatingSource: "Open Library",
			Category:     "Science Fiction",
			AddedBy:      "alice",
			Resources: []domain.Resource{
				{Name: "Open Library", URL: "https://openlibrary.org/works/OL59863W", Type: "library"},
			},
		},
		status: domain.StatusFinished,
		voters: []string{"alice", "bob", "carol"},
		review: &domain.NewReview{UserID: "bob", Content: "Slow start, unforgettable ending.", Rating: 5},
		comments: []domain.NewComment{
			{UserID: "alice", Content: "The ice crossing chapter is the best part."},
		},
	},
	{
		book: domain.NewBook{
			Title:    "Middlemarch",
			Author:   "George Eliot",
			Synopsis: "A study of provincial life.",
			Category: "Fiction",
			AddedBy:  "carol",
			Resources: []domain.Resource{
				{Name: "Project Gutenberg", URL: "https://www.gutenberg.org/ebooks/145", Type: "free"},
			},
		},
		status: domain.StatusReading,
		voters: []string{"carol", "dave"},
	},
	{
		book: domain.NewBook{
			Title:    "Sapiens",
			Author:   "Yuval Noah Harari",
			Category: "History",
			AddedBy:  "dave",
		},
		status: domain.StatusCandidate,
		voters: []string{"dave"},
	},
	{
		book: domain.NewBook{
			Title:  "Piranesi",
			Author: "Susanna Clarke",
			Rating: "4.3/5",
		},
		status: domain.StatusCandidate,
	},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Environment: cfg.App.Environment,
	})

	backend, err := providers.OpenBackend(cfg, log)
	if err != nil {
		return err
	}
	st := store.New(backend, log.Logger, store.NewNoopEmitter())
	defer st.Close()

	ctx := context.Background()

	stats, err := st.Stats(ctx)
	if err != nil {
		return err
	}
	if stats.Books > 0 {
		log.Info("Catalog already has books, nothing to seed", "books", stats.Books, "path", cfg.Store.DataPath)
		return nil
	}

	for _, s := range samples {
		if err := seedBook(ctx, st, s); err != nil {
			return fmt.Errorf("seed %q: %w", s.book.Title, err)
		}
	}

	stats, err = st.Stats(ctx)
	if err != nil {
		return err
	}
	log.Info("Seeded catalog",
		"backend", cfg.Store.Backend,
		"path", cfg.Store.DataPath,
		"books", stats.Books,
		"reviews", stats.Reviews,
		"comments", stats.Comments,
		"votes", stats.Votes,
	)
	return nil
}

func seedBook(ctx context.Context, st *store.Store, s sampleBook) error {
	book, err := st.AddBook(ctx, s.book)
	if err != nil {
		return err
	}

	if s.status != domain.StatusCandidate {
		status := s.status
		if _, err := st.UpdateBook(ctx, book.ID, domain.BookPatch{Status: &status}); err != nil {
			return err
		}
	}

	for _, user := range s.voters {
		if _, err := st.ToggleVote(ctx, book.ID, user); err != nil {
			return err
		}
	}

	if s.review == nil {
		return nil
	}
	review, err := st.AddReview(ctx, book.ID, *s.review)
	if err != nil {
		return err
	}
	for _, c := range s.comments {
		if _, err := st.AddComment(ctx, book.ID, review.ID, c); err != nil {
			return err
		}
	}
	return nil
}
