package store

import (
	"context"
	"fmt"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/id"
	"github.com/readingclub/readingclub-server/internal/sse"
)

// findReview resolves a book and then a review within it, failing with the
// message for whichever level is missing.
func findReview(c *domain.Catalog, bookID, reviewID string) (*domain.Book, int, *domain.Review, error) {
	_, book := c.FindBook(bookID)
	if book == nil {
		return nil, -1, nil, errBookNotFound()
	}
	i, review := book.FindReview(reviewID)
	if review == nil {
		return book, -1, nil, errReviewNotFound()
	}
	return book, i, review, nil
}

// GetReview returns one review of a book.
func (s *Store) GetReview(ctx context.Context, bookID, reviewID string) (*domain.Review, error) {
	var review *domain.Review
	err := s.view(ctx, func(c *domain.Catalog) error {
		var err error
		_, _, review, err = findReview(c, bookID, reviewID)
		return err
	})
	return review, err
}

// GetComment returns one comment under a review.
func (s *Store) GetComment(ctx context.Context, bookID, reviewID, commentID string) (*domain.Comment, error) {
	var comment *domain.Comment
	err := s.view(ctx, func(c *domain.Catalog) error {
		_, _, review, err := findReview(c, bookID, reviewID)
		if err != nil {
			return err
		}
		_, comment = review.FindComment(commentID)
		if comment == nil {
			return errCommentNotFound()
		}
		return nil
	})
	return comment, err
}

// AddReview appends a review to a book's discussion.
func (s *Store) AddReview(ctx context.Context, bookID string, in domain.NewReview) (*domain.Review, error) {
	reviewID, err := s.newID(id.PrefixReview)
	if err != nil {
		return nil, fmt.Errorf("generate review ID: %w", err)
	}
	review := in.Build(reviewID, s.now())

	var book *domain.Book
	err = s.mutate(ctx, func(c *domain.Catalog) error {
		_, book = c.FindBook(bookID)
		if book == nil {
			return errBookNotFound()
		}
		book.AppendReview(review)
		return nil
	}, s.indexBook(&book))
	if err != nil {
		return nil, err
	}

	s.logger.Info("review added",
		"book_id", bookID,
		"review_id", review.ID,
		"user_id", review.UserID,
	)
	s.emit(sse.NewReviewCreatedEvent(bookID, review))

	return review, nil
}

// RemoveReview deletes a review and all of its comments.
func (s *Store) RemoveReview(ctx context.Context, bookID, reviewID string) error {
	var (
		book    *domain.Book
		removed *domain.Review
	)
	err := s.mutate(ctx, func(c *domain.Catalog) error {
		b, i, _, err := findReview(c, bookID, reviewID)
		if err != nil {
			return err
		}
		book = b
		removed = b.RemoveReviewAt(i)
		return nil
	}, s.indexBook(&book))
	if err != nil {
		return err
	}

	rm := domain.CascadeReview(removed)
	s.logger.Info("review removed",
		"book_id", bookID,
		"review_id", reviewID,
		"comments", len(rm.CommentIDs),
	)
	s.emit(sse.NewReviewDeletedEvent(bookID, rm))

	return nil
}

// AddComment appends a comment to a review's thread.
func (s *Store) AddComment(ctx context.Context, bookID, reviewID string, in domain.NewComment) (*domain.Comment, error) {
	commentID, err := s.newID(id.PrefixComment)
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}
	comment := in.Build(commentID, s.now())

	var book *domain.Book
	err = s.mutate(ctx, func(c *domain.Catalog) error {
		b, _, review, err := findReview(c, bookID, reviewID)
		if err != nil {
			return err
		}
		book = b
		review.AppendComment(comment)
		return nil
	}, s.indexBook(&book))
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		"book_id", bookID,
		"review_id", reviewID,
		"comment_id", comment.ID,
	)
	s.emit(sse.NewCommentCreatedEvent(bookID, reviewID, comment))

	return comment, nil
}

// RemoveComment deletes one comment from a review.
func (s *Store) RemoveComment(ctx context.Context, bookID, reviewID, commentID string) error {
	var book *domain.Book
	err := s.mutate(ctx, func(c *domain.Catalog) error {
		b, _, review, err := findReview(c, bookID, reviewID)
		if err != nil {
			return err
		}
		i, comment := review.FindComment(commentID)
		if comment == nil {
			return errCommentNotFound()
		}
		review.RemoveCommentAt(i)
		book = b
		return nil
	}, s.indexBook(&book))
	if err != nil {
		return err
	}

	s.logger.Info("comment removed",
		"book_id", bookID,
		"review_id", reviewID,
		"comment_id", commentID,
	)
	s.emit(sse.NewCommentDeletedEvent(bookID, reviewID, commentID))

	return nil
}
