// Package metadata holds the provider-neutral model for remote book lookups:
// candidates, match scoring, category mapping, and resource merging.
package metadata

import (
	"context"
	"math"
	"strings"

	"github.com/readingclub/readingclub-server/internal/domain"
)

// Source names reported on candidates.
const (
	SourceOpenLibrary = "Open Library"
	SourceGoogleBooks = "Google Books"
	SourceGutendex    = "Gutendex"
)

// Candidate is one remote match for a title/author query.
type Candidate struct {
	Title        string            `json:"title"`
	Author       string            `json:"author"`
	Synopsis     string            `json:"synopsis"`
	Rating       *float64          `json:"rating"`
	RatingSource string            `json:"ratingSource"`
	Category     string            `json:"category"`
	Cover        string            `json:"cover"`
	Year         *int              `json:"year"`
	Source       string            `json:"source"`
	Resources    []domain.Resource `json:"resources"`

	// Ranking state, never serialized.
	Score   int      `json:"-"`
	WorkKey string   `json:"-"`
	Sources []string `json:"-"`
}

// Suggestion is a lightweight autocomplete hit.
type Suggestion struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
	Source string `json:"source"`
}

// Provider searches one remote catalog.
type Provider interface {
	Name() string
	Search(ctx context.Context, title, author string) ([]Candidate, error)
}

// Suggester returns autocomplete hits for a free-text query.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

// DescriptionSource fetches a long-form description for an Open Library work key.
type DescriptionSource interface {
	WorkDescription(ctx context.Context, workKey string) (string, error)
}

// RoundRating rounds to one decimal place. Zero and negative ratings are
// treated as absent.
func RoundRating(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	r := math.Round(v*10) / 10
	return &r
}

// ParseYear extracts a leading four-digit year from a date string such as
// "1965-08-01" or "1965".
func ParseYear(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return nil
		}
		year = year*10 + int(r-'0')
	}
	return &year
}

// JoinNames joins at most limit non-empty names with ", ".
func JoinNames(names []string, limit int) string {
	kept := make([]string, 0, limit)
	for _, name := range names {
		if name == "" {
			continue
		}
		if len(kept) == limit {
			break
		}
		kept = append(kept, name)
	}
	return strings.Join(kept, ", ")
}
