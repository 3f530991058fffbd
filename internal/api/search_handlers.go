package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readingclub/readingclub-server/internal/domain"
	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
	"github.com/readingclub/readingclub-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/books/search",
		Summary:     "Search reading list",
		Description: "Full-text search over titles, authors, synopses, reviews, and comments",
		Tags:        []string{"Search"},
	}, s.handleSearchBooks)
}

// SearchBooksInput contains parameters for searching the reading list.
type SearchBooksInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query"`
	Status string `query:"status" validate:"omitempty,book_status" doc:"Only books with this status"`
	Sort   string `query:"sort" enum:"relevance,recent,votes,title" doc:"Result order (default relevance)"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset"`
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BooksOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, s.handleError(domainerrors.Validation("q is required"), "search books")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, s.handleError(err, "validate search")
	}
	if s.services.Search == nil {
		return nil, s.handleError(domainerrors.Unavailable("search is not available"), "search books")
	}

	params := search.DefaultSearchParams()
	params.Query = query
	params.Status = input.Status
	params.Offset = input.Offset
	params.Limit = defaultSearchLimit
	if input.Sort != "" {
		params.SortBy = input.Sort
	}
	if input.Limit > 0 {
		params.Limit = min(input.Limit, maxSearchLimit)
	}

	books, err := s.services.Search.SearchBooks(ctx, params)
	if err != nil {
		return nil, s.handleError(err, "search books", "query", query)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return &BooksOutput{Body: books}, nil
}
