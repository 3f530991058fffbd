package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/readingclub/readingclub-server/internal/domain"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/books",
		Summary:     "List books",
		Description: "Returns every book in the reading list in stored order",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBook",
		Method:      http.MethodPost,
		Path:        "/api/books",
		Summary:     "Add book",
		Description: "Adds a candidate book to the reading list",
		Tags:        []string{"Books"},
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its reviews and comments",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/books/{id}",
		Summary:     "Update book",
		Description: "Overwrites the supplied fields of a book",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book together with its reviews and comments, returning the removed book",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleVote",
		Method:      http.MethodPost,
		Path:        "/api/books/{id}/vote",
		Summary:     "Toggle vote",
		Description: "Adds the user's vote for a book, or removes it if already present",
		Tags:        []string{"Books"},
	}, s.handleToggleVote)
}

// === DTOs ===

// ResourceRequest is a link supplied with a new book.
type ResourceRequest struct {
	_    struct{} `additionalProperties:"true"`
	Name string   `json:"name,omitempty" doc:"Display name"`
	URL  string   `json:"url,omitempty" doc:"Link target"`
	Type string   `json:"type,omitempty" doc:"Link kind, e.g. details, preview, ebook"`
}

// AddBookRequest is the request body for adding a book. Every field is optional.
type AddBookRequest struct {
	_            struct{}          `additionalProperties:"true"`
	Title        string            `json:"title,omitempty" doc:"Book title"`
	Author       string            `json:"author,omitempty" doc:"Author name"`
	Synopsis     string            `json:"synopsis,omitempty" doc:"Short description"`
	Rating       any               `json:"rating,omitempty" doc:"Rating in any JSON form, stored as supplied"`
	RatingSource string            `json:"ratingSource,omitempty" doc:"Where the rating came from"`
	Category     string            `json:"category,omitempty" doc:"Category, defaults to uncategorized"`
	Cover        string            `json:"cover,omitempty" doc:"Cover image URL"`
	AddedBy      string            `json:"addedBy,omitempty" doc:"Member who proposed the book, defaults to anonymous"`
	Resources    []ResourceRequest `json:"resources,omitempty" doc:"Places to read, borrow, or buy the book"`
}

func (r AddBookRequest) toDomain() domain.NewBook {
	var resources []domain.Resource
	for _, res := range r.Resources {
		resources = append(resources, domain.Resource{Name: res.Name, URL: res.URL, Type: res.Type})
	}
	return domain.NewBook{
		Title:        r.Title,
		Author:       r.Author,
		Synopsis:     r.Synopsis,
		Rating:       r.Rating,
		RatingSource: r.RatingSource,
		Category:     r.Category,
		Cover:        r.Cover,
		AddedBy:      r.AddedBy,
		Resources:    resources,
	}
}

// AddBookInput wraps the add book request for Huma.
type AddBookInput struct {
	Body AddBookRequest `required:"false"`
}

// UpdateBookRequest is the request body for updating a book. Only supplied
// fields are written; an explicit "rating": null clears the rating.
type UpdateBookRequest struct {
	_            struct{} `additionalProperties:"true"`
	Title        *string  `json:"title,omitempty" doc:"Book title"`
	Author       *string  `json:"author,omitempty" doc:"Author name"`
	Synopsis     *string  `json:"synopsis,omitempty" doc:"Short description"`
	Rating       any      `json:"rating,omitempty" doc:"Rating in any JSON form, null clears it"`
	RatingSource *string  `json:"ratingSource,omitempty" doc:"Where the rating came from"`
	Category     *string  `json:"category,omitempty" doc:"Category"`
	Cover        *string  `json:"cover,omitempty" doc:"Cover image URL"`
	Status       *string  `json:"status,omitempty" validate:"omitempty,book_status" doc:"candidate, reading, or finished"`

	ratingSet bool
}

// UnmarshalJSON records whether the rating key was present at all, since a
// null rating and a missing rating mean different things.
func (r *UpdateBookRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateBookRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, p.ratingSet = keys["rating"]
	*r = UpdateBookRequest(p)
	return nil
}

func (r UpdateBookRequest) toDomain() domain.BookPatch {
	patch := domain.BookPatch{
		Title:        r.Title,
		Author:       r.Author,
		Synopsis:     r.Synopsis,
		Rating:       r.Rating,
		RatingSet:    r.ratingSet,
		RatingSource: r.RatingSource,
		Category:     r.Category,
		Cover:        r.Cover,
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string            `path:"id" doc:"Book ID"`
	Body UpdateBookRequest `required:"false"`
}

// VoteRequest is the request body for toggling a vote.
type VoteRequest struct {
	_      struct{} `additionalProperties:"true"`
	UserID string   `json:"userId,omitempty" doc:"Voting member, defaults to anonymous"`
}

// VoteInput wraps the vote request for Huma.
type VoteInput struct {
	ID   string      `path:"id" doc:"Book ID"`
	Body VoteRequest `required:"false"`
}

// BookIDInput identifies a single book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BooksOutput wraps a list of books for Huma.
type BooksOutput struct {
	Body []*domain.Book
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BooksOutput, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, s.handleError(err, "list books")
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookOutput, error) {
	book, err := s.store.AddBook(ctx, input.Body.toDomain())
	if err != nil {
		return nil, s.handleError(err, "add book")
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.store.GetBook(ctx, input.ID)
	if err != nil {
		return nil, s.handleError(err, "get book", "book_id", input.ID)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, s.handleError(err, "validate book update")
	}

	book, err := s.store.UpdateBook(ctx, input.ID, input.Body.toDomain())
	if err != nil {
		return nil, s.handleError(err, "update book", "book_id", input.ID)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.store.RemoveBook(ctx, input.ID)
	if err != nil {
		return nil, s.handleError(err, "delete book", "book_id", input.ID)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleToggleVote(ctx context.Context, input *VoteInput) (*BookOutput, error) {
	book, err := s.store.ToggleVote(ctx, input.ID, input.Body.UserID)
	if err != nil {
		return nil, s.handleError(err, "toggle vote", "book_id", input.ID)
	}
	return &BookOutput{Body: book}, nil
}
