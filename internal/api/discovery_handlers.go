package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
	"github.com/readingclub/readingclub-server/internal/metadata"
)

func (s *Server) registerDiscoveryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "discoverBook",
		Method:      http.MethodGet,
		Path:        "/api/search-book",
		Summary:     "Look up a book",
		Description: "Queries Open Library, Google Books, and Gutendex and returns merged, ranked candidates",
		Tags:        []string{"Discovery"},
	}, s.handleDiscoverBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "suggestBooks",
		Method:      http.MethodGet,
		Path:        "/api/search-suggest",
		Summary:     "Suggest titles",
		Description: "Title suggestions for the add-book form; provider failures yield fewer results",
		Tags:        []string{"Discovery"},
	}, s.handleSuggestBooks)
}

// DiscoverBookInput contains the title and optional author to look up.
type DiscoverBookInput struct {
	Title  string `query:"title" maxLength:"200" doc:"Book title"`
	Author string `query:"author" maxLength:"200" doc:"Author name"`
}

// CandidatesOutput wraps discovery candidates for Huma.
type CandidatesOutput struct {
	Body []metadata.Candidate
}

// SuggestInput contains the partial title typed so far.
type SuggestInput struct {
	Query string `query:"q" maxLength:"200" doc:"Partial title"`
}

// SuggestionsOutput wraps suggestions for Huma.
type SuggestionsOutput struct {
	Body []metadata.Suggestion
}

func (s *Server) handleDiscoverBook(ctx context.Context, input *DiscoverBookInput) (*CandidatesOutput, error) {
	if s.services.Discovery == nil {
		return nil, s.handleError(domainerrors.Unavailable("book discovery is disabled"), "discover book")
	}

	candidates, err := s.services.Discovery.Search(ctx, input.Title, input.Author)
	if err != nil {
		return nil, s.handleError(err, "discover book", "title", input.Title)
	}
	return &CandidatesOutput{Body: candidates}, nil
}

func (s *Server) handleSuggestBooks(ctx context.Context, input *SuggestInput) (*SuggestionsOutput, error) {
	if s.services.Discovery == nil {
		return &SuggestionsOutput{Body: []metadata.Suggestion{}}, nil
	}
	return &SuggestionsOutput{Body: s.services.Discovery.Suggest(ctx, input.Query)}, nil
}
