package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	domainerrors "github.com/readingclub/readingclub-server/internal/errors"
	"github.com/readingclub/readingclub-server/internal/metadata"
	"github.com/readingclub/readingclub-server/internal/normalize"
)

// Discovery limits.
const (
	maxDiscoveryResults = 8
	maxEnriched         = 6

	suggestPerProvider = 8
	maxSuggestions     = 10
	minSuggestQuery    = 2
)

// DiscoveryService finds books on public catalogs for the "add a book" form.
type DiscoveryService struct {
	providers    []metadata.Provider
	suggesters   []metadata.Suggester
	descriptions metadata.DescriptionSource
	enrichers    []metadata.Provider
	timeout      time.Duration
	logger       *slog.Logger
}

// NewDiscoveryService creates a discovery service. descriptions may be nil.
// timeout bounds each provider call; zero uses metadata.DefaultTimeout.
func NewDiscoveryService(
	providers []metadata.Provider,
	suggesters []metadata.Suggester,
	descriptions metadata.DescriptionSource,
	timeout time.Duration,
	logger *slog.Logger,
) *DiscoveryService {
	if timeout <= 0 {
		timeout = metadata.DefaultTimeout
	}
	return &DiscoveryService{
		providers:    providers,
		suggesters:   suggesters,
		descriptions: descriptions,
		timeout:      timeout,
		logger:       logger,
	}
}

// WithEnrichers sets the providers consulted, in order, to backfill missing
// synopsis, cover, rating and category on the leading candidates.
func (s *DiscoveryService) WithEnrichers(enrichers ...metadata.Provider) *DiscoveryService {
	s.enrichers = enrichers
	return s
}

// Search queries every provider concurrently and returns merged, ranked
// candidates. A failing provider is logged and skipped.
func (s *DiscoveryService) Search(ctx context.Context, title, author string) ([]metadata.Candidate, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, domainerrors.Validation("title is required")
	}

	perProvider := make([][]metadata.Candidate, len(s.providers))
	var wg sync.WaitGroup
	for i, p := range s.providers {
		wg.Go(func() {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			results, err := p.Search(pctx, title, author)
			if err != nil {
				s.logger.Warn("discovery provider failed", "provider", p.Name(), "error", err)
				return
			}
			perProvider[i] = results
		})
	}
	wg.Wait()

	var all []metadata.Candidate
	for _, results := range perProvider {
		all = append(all, results...)
	}
	if len(all) == 0 {
		return []metadata.Candidate{}, nil
	}

	merged := metadata.MergeCandidates(all)
	s.enrich(ctx, merged, title, author)

	metadata.Rank(merged)
	if len(merged) > maxDiscoveryResults {
		merged = merged[:maxDiscoveryResults]
	}

	for i := range merged {
		c := &merged[i]
		if c.Category == "" {
			c.Category = metadata.DefaultCategory
		}
		c.Resources = metadata.WithDiscoveryLinks(c.Resources, c.Title, c.Author)
	}

	s.logger.Debug("discovery search",
		"title", title,
		"author", author,
		"candidates", len(all),
		"results", len(merged),
	)
	return merged, nil
}

// enrich completes the leading candidates. The first six with gaps are
// re-queried against the enrichers and get a fallback synopsis if none
// turns up; the rest of the top eight only get a work description.
func (s *DiscoveryService) enrich(ctx context.Context, candidates []metadata.Candidate, title, author string) {
	var wg sync.WaitGroup
	for i := range min(len(candidates), maxDiscoveryResults) {
		c := &candidates[i]
		full := i < maxEnriched && metadata.NeedsEnrichment(*c)
		if !full && (metadata.HasRealSynopsis(c.Synopsis) || c.WorkKey == "") {
			continue
		}
		wg.Go(func() {
			if full {
				s.backfill(ctx, c, title, author)
			}
			if !metadata.HasRealSynopsis(c.Synopsis) && c.WorkKey != "" {
				s.fetchDescription(ctx, c)
			}
			if full && !metadata.HasRealSynopsis(c.Synopsis) {
				c.Synopsis = metadata.FallbackSynopsis(*c)
			}
		})
	}
	wg.Wait()
}

// backfill fills c's gaps from each enricher's best match in turn.
func (s *DiscoveryService) backfill(ctx context.Context, c *metadata.Candidate, title, author string) {
	if c.Title != "" {
		title = c.Title
	}
	if c.Author != "" {
		author = c.Author
	}
	for _, e := range s.enrichers {
		if !metadata.NeedsEnrichment(*c) {
			return
		}
		ectx, cancel := context.WithTimeout(ctx, s.timeout)
		found, err := e.Search(ectx, title, author)
		cancel()
		if err != nil {
			s.logger.Debug("enrichment lookup failed", "provider", e.Name(), "title", title, "error", err)
			continue
		}
		if match, ok := metadata.BestMatch(found); ok {
			metadata.FillGaps(c, match)
		}
	}
}

func (s *DiscoveryService) fetchDescription(ctx context.Context, c *metadata.Candidate) {
	if s.descriptions == nil {
		return
	}
	dctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	desc, err := s.descriptions.WorkDescription(dctx, c.WorkKey)
	if err != nil {
		s.logger.Debug("work description unavailable", "work", c.WorkKey, "error", err)
		return
	}
	c.Synopsis = metadata.CleanSynopsis(desc)
}

// Suggest returns up to ten autocomplete hits. Queries shorter than two
// characters return nothing; provider errors are swallowed.
func (s *DiscoveryService) Suggest(ctx context.Context, query string) []metadata.Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestQuery {
		return []metadata.Suggestion{}
	}

	perProvider := make([][]metadata.Suggestion, len(s.suggesters))
	var wg sync.WaitGroup
	for i, sg := range s.suggesters {
		wg.Go(func() {
			sctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			results, err := sg.Suggest(sctx, query, suggestPerProvider)
			if err != nil {
				s.logger.Debug("suggest provider failed", "error", err)
				return
			}
			perProvider[i] = results
		})
	}
	wg.Wait()

	out := make([]metadata.Suggestion, 0, maxSuggestions)
	seen := make(map[string]struct{})
	for _, results := range perProvider {
		for _, sug := range results {
			key := normalize.Key(sug.Title, sug.Author)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, sug)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}
