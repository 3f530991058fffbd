// Package gutendex is a client for Gutendex, the Project Gutenberg catalog API.
package gutendex

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/metadata"
)

const (
	defaultBaseURL = "https://gutendex.com"

	defaultRPS   = 2.0
	defaultBurst = 4

	searchLimit = 12
)

// Client is a rate-limited Gutendex client.
type Client struct {
	fetch   *metadata.Fetcher
	baseURL string
}

// New creates a client. A zero timeout uses metadata.DefaultTimeout.
func New(logger *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		fetch:   metadata.NewFetcher("gutendex", defaultRPS, defaultBurst, timeout, logger),
		baseURL: defaultBaseURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.fetch.Close()
}

// Name implements metadata.Provider.
func (c *Client) Name() string { return metadata.SourceGutendex }

type booksResponse struct {
	Results []book `json:"results"`
}

type book struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subjects      []string          `json:"subjects"`
	Formats       map[string]string `json:"formats"`
	DownloadCount int               `json:"download_count"`
}

// Search runs a full-text search over title and author.
func (c *Client) Search(ctx context.Context, title, author string) ([]metadata.Candidate, error) {
	q := url.Values{}
	q.Set("search", strings.TrimSpace(title+" "+author))

	var resp booksResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/books?"+q.Encode(), &resp); err != nil {
		return nil, metadata.WrapError(c.Name(), "search", err)
	}

	books := resp.Results
	if len(books) > searchLimit {
		books = books[:searchLimit]
	}
	results := make([]metadata.Candidate, 0, len(books))
	for _, b := range books {
		results = append(results, c.toCandidate(title, author, b))
	}
	return results, nil
}

func (c *Client) toCandidate(queryTitle, queryAuthor string, b book) metadata.Candidate {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.Name)
	}
	bookAuthor := metadata.JoinNames(names, 2)

	score := metadata.ScoreMatch(queryTitle, queryAuthor, b.Title, bookAuthor)
	score += metadata.CountBonus(b.DownloadCount, 200, 8)

	subjects := b.Subjects
	if len(subjects) > 4 {
		subjects = subjects[:4]
	}
	var synopsis string
	if len(subjects) > 0 {
		synopsis = "Subjects: " + strings.Join(subjects[:min(3, len(subjects))], " / ")
	}

	return metadata.Candidate{
		Title:     b.Title,
		Author:    bookAuthor,
		Synopsis:  synopsis,
		Category:  metadata.MapCategory(subjects),
		Source:    metadata.SourceGutendex,
		Resources: c.resources(b),
		Score:     score,
	}
}

func (c *Client) resources(b book) []domain.Resource {
	// Map iteration order is random; sort by MIME type for stable output.
	mimes := make([]string, 0, len(b.Formats))
	for mime := range b.Formats {
		mimes = append(mimes, mime)
	}
	sort.Strings(mimes)

	var out []domain.Resource
	for _, mime := range mimes {
		link := b.Formats[mime]
		if link == "" || strings.HasSuffix(link, ".zip") {
			continue
		}
		switch {
		case strings.Contains(mime, "text/html"):
			out = append(out, domain.Resource{Name: "Project Gutenberg online", URL: link, Type: metadata.ResourceRead})
		case strings.Contains(mime, "application/epub+zip"):
			out = append(out, domain.Resource{Name: "Project Gutenberg EPUB", URL: link, Type: metadata.ResourceEbook})
		case strings.Contains(mime, "application/pdf"):
			out = append(out, domain.Resource{Name: "Project Gutenberg PDF", URL: link, Type: metadata.ResourceEbook})
		}
	}
	if b.ID != 0 {
		out = append(out, domain.Resource{
			Name: "Gutendex details",
			URL:  defaultBaseURL + "/books/" + strconv.Itoa(b.ID),
			Type: metadata.ResourceDetails,
		})
	}
	return metadata.MergeResources(out)
}
