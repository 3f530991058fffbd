package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/search"
	"github.com/readingclub/readingclub-server/internal/store"
)

// SearchService keeps the search index in step with the catalog and answers
// local book searches. It implements store.SearchIndexer.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs a raw index query.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// SearchBooks runs a query and resolves the hits to catalog books in score
// order. Hits for books that no longer exist are skipped.
func (s *SearchService) SearchBooks(ctx context.Context, params search.SearchParams) ([]*domain.Book, error) {
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(result.Hits) == 0 {
		return []*domain.Book{}, nil
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	byID := make(map[string]*domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	out := make([]*domain.Book, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if b, ok := byID[hit.ID]; ok {
			out = append(out, b)
		} else {
			s.logger.Debug("search hit for missing book", "id", hit.ID)
		}
	}
	return out, nil
}

// IndexBook indexes a single book.
// Call this when a book or its discussion changes.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	if err := s.index.IndexDocument(search.BookToDocument(book)); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Debug("indexed book", "id", book.ID, "title", book.Title)
	return nil
}

// DeleteBook removes a book from the index.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// Rebuild replaces the index contents with books.
func (s *SearchService) Rebuild(_ context.Context, books []*domain.Book) error {
	docs := make([]*search.Document, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.BookToDocument(b))
	}
	return s.index.Rebuild(docs)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the current catalog.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}
	if err := s.Rebuild(ctx, books); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("search index rebuilt", "books", len(books))
	return nil
}
