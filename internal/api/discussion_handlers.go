package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/http/response"
)

func (s *Server) registerDiscussionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addReview",
		Method:      http.MethodPost,
		Path:        "/api/books/{id}/reviews",
		Summary:     "Add review",
		Tags:        []string{"Reviews"},
	}, s.handleAddReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReview",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}/reviews/{reviewId}",
		Summary:     "Get review",
		Tags:        []string{"Reviews"},
	}, s.handleGetReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteReview",
		Method:      http.MethodDelete,
		Path:        "/api/books/{id}/reviews/{reviewId}",
		Summary:     "Delete review",
		Description: "Removes a review and every comment under it",
		Tags:        []string{"Reviews"},
	}, s.handleDeleteReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/books/{id}/reviews/{reviewId}/comments",
		Summary:     "Add comment",
		Tags:        []string{"Comments"},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/books/{id}/reviews/{reviewId}/comments/{commentId}",
		Summary:     "Delete comment",
		Tags:        []string{"Comments"},
	}, s.handleDeleteComment)
}

// === DTOs ===

// AddReviewRequest is the request body for adding a review.
type AddReviewRequest struct {
	_       struct{} `additionalProperties:"true"`
	UserID  string   `json:"userId,omitempty" doc:"Reviewer, defaults to anonymous"`
	Content string   `json:"content,omitempty" doc:"Review text"`
	Rating  any      `json:"rating,omitempty" doc:"Rating in any JSON form, stored as supplied"`
}

// AddReviewInput wraps the add review request for Huma.
type AddReviewInput struct {
	ID   string           `path:"id" doc:"Book ID"`
	Body AddReviewRequest `required:"false"`
}

// ReviewIDInput identifies a review within a book.
type ReviewIDInput struct {
	BookID   string `path:"id" doc:"Book ID"`
	ReviewID string `path:"reviewId" doc:"Review ID"`
}

// AddCommentRequest is the request body for adding a comment.
type AddCommentRequest struct {
	_       struct{} `additionalProperties:"true"`
	UserID  string   `json:"userId,omitempty" doc:"Commenter, defaults to anonymous"`
	Content string   `json:"content,omitempty" doc:"Comment text"`
}

// AddCommentInput wraps the add comment request for Huma.
type AddCommentInput struct {
	BookID   string            `path:"id" doc:"Book ID"`
	ReviewID string            `path:"reviewId" doc:"Review ID"`
	Body     AddCommentRequest `required:"false"`
}

// CommentIDInput identifies a comment within a review.
type CommentIDInput struct {
	BookID    string `path:"id" doc:"Book ID"`
	ReviewID  string `path:"reviewId" doc:"Review ID"`
	CommentID string `path:"commentId" doc:"Comment ID"`
}

// ReviewOutput wraps a review for Huma.
type ReviewOutput struct {
	Body *domain.Review
}

// CommentOutput wraps a comment for Huma.
type CommentOutput struct {
	Body *domain.Comment
}

// SuccessOutput is returned by deletes that have nothing else to report.
type SuccessOutput struct {
	Body response.Success
}

// === Handlers ===

func (s *Server) handleAddReview(ctx context.Context, input *AddReviewInput) (*ReviewOutput, error) {
	review, err := s.store.AddReview(ctx, input.ID, domain.NewReview{
		UserID:  input.Body.UserID,
		Content: input.Body.Content,
		Rating:  input.Body.Rating,
	})
	if err != nil {
		return nil, s.handleError(err, "add review", "book_id", input.ID)
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleGetReview(ctx context.Context, input *ReviewIDInput) (*ReviewOutput, error) {
	review, err := s.store.GetReview(ctx, input.BookID, input.ReviewID)
	if err != nil {
		return nil, s.handleError(err, "get review", "book_id", input.BookID, "review_id", input.ReviewID)
	}
	return &ReviewOutput{Body: review}, nil
}

func (s *Server) handleDeleteReview(ctx context.Context, input *ReviewIDInput) (*SuccessOutput, error) {
	if err := s.store.RemoveReview(ctx, input.BookID, input.ReviewID); err != nil {
		return nil, s.handleError(err, "delete review", "book_id", input.BookID, "review_id", input.ReviewID)
	}
	return &SuccessOutput{Body: response.Success{Success: true}}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	comment, err := s.store.AddComment(ctx, input.BookID, input.ReviewID, domain.NewComment{
		UserID:  input.Body.UserID,
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, s.handleError(err, "add comment", "book_id", input.BookID, "review_id", input.ReviewID)
	}
	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*SuccessOutput, error) {
	if err := s.store.RemoveComment(ctx, input.BookID, input.ReviewID, input.CommentID); err != nil {
		return nil, s.handleError(err, "delete comment",
			"book_id", input.BookID,
			"review_id", input.ReviewID,
			"comment_id", input.CommentID,
		)
	}
	return &SuccessOutput{Body: response.Success{Success: true}}, nil
}
