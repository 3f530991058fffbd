// Package openlibrary is a client for the Open Library search and works APIs.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/metadata"
	"github.com/readingclub/readingclub-server/internal/normalize"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	coversBaseURL  = "https://covers.openlibrary.org"

	// Open Library asks for modest traffic; 3 rps with a small burst.
	defaultRPS   = 3.0
	defaultBurst = 5

	searchLimit       = 12
	descriptionLength = 260
)

var searchFields = strings.Join([]string{
	"key", "title", "author_name", "first_publish_year", "cover_i",
	"ratings_average", "ratings_count", "subject", "ia", "ebook_access",
}, ",")

// Client is a rate-limited Open Library client.
type Client struct {
	fetch   *metadata.Fetcher
	baseURL string
}

// New creates a client. A zero timeout uses metadata.DefaultTimeout.
func New(logger *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		fetch:   metadata.NewFetcher("openlibrary", defaultRPS, defaultBurst, timeout, logger),
		baseURL: defaultBaseURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.fetch.Close()
}

// Name implements metadata.Provider.
func (c *Client) Name() string { return metadata.SourceOpenLibrary }

type searchResponse struct {
	Docs []doc `json:"docs"`
}

type doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	RatingsAverage   float64  `json:"ratings_average"`
	RatingsCount     int      `json:"ratings_count"`
	Subject          []string `json:"subject"`
	IA               []string `json:"ia"`
	EbookAccess      string   `json:"ebook_access"`
}

// Search looks up candidates by title and optional author.
func (c *Client) Search(ctx context.Context, title, author string) ([]metadata.Candidate, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("limit", strconv.Itoa(searchLimit))
	q.Set("fields", searchFields)
	if author != "" {
		q.Set("author", author)
	}

	var resp searchResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/search.json?"+q.Encode(), &resp); err != nil {
		return nil, metadata.WrapError(c.Name(), "search", err)
	}

	results := make([]metadata.Candidate, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		results = append(results, c.toCandidate(title, author, d))
	}
	return results, nil
}

func (c *Client) toCandidate(queryTitle, queryAuthor string, d doc) metadata.Candidate {
	bookAuthor := metadata.JoinNames(d.AuthorName, 2)
	rating := metadata.RoundRating(d.RatingsAverage)

	score := metadata.ScoreMatch(queryTitle, queryAuthor, d.Title, bookAuthor)
	if rating != nil {
		score += 8
	}
	score += metadata.CountBonus(d.RatingsCount, 40, 12)
	if d.CoverID != 0 {
		score += 5
	}
	if d.FirstPublishYear != 0 {
		score += 2
	}

	cand := metadata.Candidate{
		Title:     d.Title,
		Author:    bookAuthor,
		Rating:    rating,
		Category:  metadata.MapCategory(firstN(d.Subject, 5)),
		Source:    metadata.SourceOpenLibrary,
		Resources: c.resources(d),
		Score:     score,
		WorkKey:   d.Key,
	}
	if rating != nil {
		cand.RatingSource = metadata.SourceOpenLibrary
	}
	if d.CoverID != 0 {
		cand.Cover = fmt.Sprintf("%s/b/id/%d-M.jpg", coversBaseURL, d.CoverID)
	}
	if d.FirstPublishYear != 0 {
		year := d.FirstPublishYear
		cand.Year = &year
	}
	return cand
}

func (c *Client) resources(d doc) []domain.Resource {
	var out []domain.Resource
	if d.Key != "" {
		out = append(out, domain.Resource{Name: "Open Library page", URL: defaultBaseURL + d.Key, Type: metadata.ResourceDetails})
	}
	if len(d.IA) > 0 {
		out = append(out, domain.Resource{Name: "Internet Archive borrow/preview", URL: "https://archive.org/details/" + d.IA[0], Type: metadata.ResourceBorrow})
	}
	switch d.EbookAccess {
	case "public", "borrowable", "printdisabled":
		if d.Key != "" {
			out = append(out, domain.Resource{Name: "Open Library e-book", URL: defaultBaseURL + d.Key + "?edition=ebook", Type: metadata.ResourceEbook})
		}
	}
	query := url.QueryEscape(strings.TrimSpace(d.Title + " " + metadata.JoinNames(d.AuthorName, 1)))
	out = append(out, domain.Resource{Name: "Google Books search", URL: "https://books.google.com/books?q=" + query, Type: metadata.ResourceSearch})
	return metadata.MergeResources(out)
}

// Suggest returns autocomplete hits for a free-text query.
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]metadata.Suggestion, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", "title,author_name,first_publish_year")

	var resp searchResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/search.json?"+q.Encode(), &resp); err != nil {
		return nil, metadata.WrapError(c.Name(), "suggest", err)
	}

	out := make([]metadata.Suggestion, 0, len(resp.Docs))
	for _, d := range firstN(resp.Docs, limit) {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			continue
		}
		s := metadata.Suggestion{
			Title:  title,
			Author: metadata.JoinNames(d.AuthorName, 2),
			Source: metadata.SourceOpenLibrary,
		}
		if d.FirstPublishYear != 0 {
			year := d.FirstPublishYear
			s.Year = &year
		}
		out = append(out, s)
	}
	return out, nil
}

// WorkDescription fetches a work's description, truncated for display.
// Works without a description return "".
func (c *Client) WorkDescription(ctx context.Context, workKey string) (string, error) {
	if workKey == "" {
		return "", nil
	}

	var work struct {
		Description json.RawMessage `json:"description"`
	}
	if err := c.fetch.GetJSON(ctx, c.baseURL+workKey+".json", &work); err != nil {
		return "", metadata.WrapError(c.Name(), "work", err)
	}

	text := strings.TrimSpace(parseDescription(work.Description))
	return normalize.Truncate(text, descriptionLength), nil
}

// parseDescription accepts either a bare string or {"type", "value"}.
func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &typed); err == nil {
		return typed.Value
	}
	return ""
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
