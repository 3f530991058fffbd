package store

import (
	"context"
	"fmt"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/id"
	"github.com/readingclub/readingclub-server/internal/sse"
)

// ListBooks returns every book in stored order.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	err := s.view(ctx, func(c *domain.Catalog) error {
		books = c.Books
		return nil
	})
	return books, err
}

// GetBook returns the book with the given ID.
func (s *Store) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	var book *domain.Book
	err := s.view(ctx, func(c *domain.Catalog) error {
		_, book = c.FindBook(bookID)
		if book == nil {
			return errBookNotFound()
		}
		return nil
	})
	return book, err
}

// Stats counts the entities in the catalog.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := s.view(ctx, func(c *domain.Catalog) error {
		stats = c.Stats()
		return nil
	})
	return stats, err
}

// AddBook appends a new candidate book to the catalog.
func (s *Store) AddBook(ctx context.Context, in domain.NewBook) (*domain.Book, error) {
	bookID, err := s.newID(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := in.Build(bookID, s.now())

	err = s.mutate(ctx, func(c *domain.Catalog) error {
		c.AppendBook(book)
		return nil
	}, s.indexBook(&book))
	if err != nil {
		return nil, err
	}

	s.logger.Info("book added",
		"book_id", book.ID,
		"title", book.Title,
		"added_by", book.AddedBy,
	)
	s.emit(sse.NewBookCreatedEvent(book))

	return book, nil
}

// RemoveBook deletes a book together with all of its reviews and their
// comments, and returns the removed book.
func (s *Store) RemoveBook(ctx context.Context, bookID string) (*domain.Book, error) {
	var removed *domain.Book

	err := s.mutate(ctx, func(c *domain.Catalog) error {
		i, book := c.FindBook(bookID)
		if book == nil {
			return errBookNotFound()
		}
		removed = c.RemoveBookAt(i)
		return nil
	}, func(ctx context.Context) {
		if err := s.searchIndexer.DeleteBook(ctx, removed.ID); err != nil {
			s.logger.Warn("failed to remove book from search index", "book_id", removed.ID, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	rm := domain.CascadeBook(removed)
	s.logger.Info("book removed",
		"book_id", removed.ID,
		"reviews", len(rm.ReviewIDs),
		"comments", len(rm.CommentIDs),
	)
	s.emit(sse.NewBookDeletedEvent(rm))

	return removed, nil
}

// UpdateBook overwrites the supplied mutable fields of a book.
func (s *Store) UpdateBook(ctx context.Context, bookID string, patch domain.BookPatch) (*domain.Book, error) {
	var updated *domain.Book

	err := s.mutate(ctx, func(c *domain.Catalog) error {
		_, book := c.FindBook(bookID)
		if book == nil {
			return errBookNotFound()
		}
		patch.Apply(book)
		updated = book
		return nil
	}, s.indexBook(&updated))
	if err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "book_id", updated.ID, "fields", patch.Fields())
	s.emit(sse.NewBookUpdatedEvent(updated))

	return updated, nil
}

// ToggleVote flips userID's interest in a book. An empty userID votes as
// the anonymous user.
func (s *Store) ToggleVote(ctx context.Context, bookID, userID string) (*domain.Book, error) {
	if userID == "" {
		userID = domain.DefaultUser
	}

	var (
		updated *domain.Book
		voted   bool
	)
	err := s.mutate(ctx, func(c *domain.Catalog) error {
		_, book := c.FindBook(bookID)
		if book == nil {
			return errBookNotFound()
		}
		voted = book.Votes.Toggle(userID)
		updated = book
		return nil
	}, s.indexBook(&updated))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("vote toggled",
		"book_id", updated.ID,
		"user_id", userID,
		"voted", voted,
		"votes", updated.Votes.Count(),
	)
	s.emit(sse.NewBookVotedEvent(updated, userID, voted))

	return updated, nil
}
