// Package googlebooks is a client for the Google Books volumes API.
package googlebooks

import (
	"context"
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
	defaultBaseURL = "https://www.googleapis.com/books/v1"

	defaultRPS   = 2.0
	defaultBurst = 4

	searchLimit    = 12
	synopsisLength = 260
)

// Client is a rate-limited Google Books client.
type Client struct {
	fetch   *metadata.Fetcher
	baseURL string
}

// New creates a client. A zero timeout uses metadata.DefaultTimeout.
func New(logger *slog.Logger, timeout time.Duration) *Client {
	return &Client{
		fetch:   metadata.NewFetcher("googlebooks", defaultRPS, defaultBurst, timeout, logger),
		baseURL: defaultBaseURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.fetch.Close()
}

// Name implements metadata.Provider.
func (c *Client) Name() string { return metadata.SourceGoogleBooks }

type volumesResponse struct {
	Items []volume `json:"items"`
}

type volume struct {
	VolumeInfo struct {
		Title         string   `json:"title"`
		Authors       []string `json:"authors"`
		PublishedDate string   `json:"publishedDate"`
		Description   string   `json:"description"`
		Categories    []string `json:"categories"`
		AverageRating float64  `json:"averageRating"`
		RatingsCount  int      `json:"ratingsCount"`
		ImageLinks    struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
		InfoLink    string `json:"infoLink"`
		PreviewLink string `json:"previewLink"`
	} `json:"volumeInfo"`
	AccessInfo struct {
		WebReaderLink string   `json:"webReaderLink"`
		EPUB          download `json:"epub"`
		PDF           download `json:"pdf"`
	} `json:"accessInfo"`
}

type download struct {
	IsAvailable  bool   `json:"isAvailable"`
	ACSTokenLink string `json:"acsTokenLink"`
}

func (c *Client) volumes(ctx context.Context, op, query string, limit int) ([]volume, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(limit))
	q.Set("printType", "books")

	var resp volumesResponse
	if err := c.fetch.GetJSON(ctx, c.baseURL+"/volumes?"+q.Encode(), &resp); err != nil {
		return nil, metadata.WrapError(c.Name(), op, err)
	}
	return resp.Items, nil
}

// Search looks up candidates with intitle:/inauthor: qualifiers.
func (c *Client) Search(ctx context.Context, title, author string) ([]metadata.Candidate, error) {
	query := "intitle:" + title
	if author != "" {
		query += " inauthor:" + author
	}

	items, err := c.volumes(ctx, "search", query, searchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]metadata.Candidate, 0, len(items))
	for _, v := range items {
		results = append(results, toCandidate(title, author, v))
	}
	return results, nil
}

func toCandidate(queryTitle, queryAuthor string, v volume) metadata.Candidate {
	info := v.VolumeInfo
	bookAuthor := metadata.JoinNames(info.Authors, 2)
	rating := metadata.RoundRating(info.AverageRating)

	score := metadata.ScoreMatch(queryTitle, queryAuthor, info.Title, bookAuthor)
	if rating != nil {
		score += 7
	}
	score += metadata.CountBonus(info.RatingsCount, 50, 10)
	if info.Description != "" {
		score += 4
	}
	if info.ImageLinks.Thumbnail != "" {
		score += 3
	}

	cover := info.ImageLinks.Thumbnail
	if cover == "" {
		cover = info.ImageLinks.SmallThumbnail
	}
	if strings.HasPrefix(cover, "http://") {
		cover = "https://" + strings.TrimPrefix(cover, "http://")
	}

	categories := info.Categories
	if len(categories) > 3 {
		categories = categories[:3]
	}

	cand := metadata.Candidate{
		Title:     info.Title,
		Author:    bookAuthor,
		Synopsis:  normalize.Truncate(metadata.CleanSynopsis(info.Description), synopsisLength),
		Rating:    rating,
		Category:  metadata.MapCategory(categories),
		Cover:     cover,
		Year:      metadata.ParseYear(info.PublishedDate),
		Source:    metadata.SourceGoogleBooks,
		Resources: resources(v),
		Score:     score,
	}
	if rating != nil {
		cand.RatingSource = metadata.SourceGoogleBooks
	}
	return cand
}

func resources(v volume) []domain.Resource {
	var out []domain.Resource
	if v.VolumeInfo.InfoLink != "" {
		out = append(out, domain.Resource{Name: "Google Books page", URL: v.VolumeInfo.InfoLink, Type: metadata.ResourceDetails})
	}
	if v.VolumeInfo.PreviewLink != "" {
		out = append(out, domain.Resource{Name: "Google Books preview", URL: v.VolumeInfo.PreviewLink, Type: metadata.ResourcePreview})
	}
	if v.AccessInfo.WebReaderLink != "" {
		out = append(out, domain.Resource{Name: "Google Web Reader", URL: v.AccessInfo.WebReaderLink, Type: metadata.ResourceRead})
	}
	if v.AccessInfo.EPUB.IsAvailable && v.AccessInfo.EPUB.ACSTokenLink != "" {
		out = append(out, domain.Resource{Name: "Google EPUB", URL: v.AccessInfo.EPUB.ACSTokenLink, Type: metadata.ResourceEbook})
	}
	if v.AccessInfo.PDF.IsAvailable && v.AccessInfo.PDF.ACSTokenLink != "" {
		out = append(out, domain.Resource{Name: "Google PDF", URL: v.AccessInfo.PDF.ACSTokenLink, Type: metadata.ResourceEbook})
	}
	return metadata.MergeResources(out)
}

// Suggest returns autocomplete hits for a free-text query.
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]metadata.Suggestion, error) {
	items, err := c.volumes(ctx, "suggest", query, limit)
	if err != nil {
		return nil, err
	}

	out := make([]metadata.Suggestion, 0, len(items))
	for _, v := range items {
		title := strings.TrimSpace(v.VolumeInfo.Title)
		if title == "" {
			continue
		}
		out = append(out, metadata.Suggestion{
			Title:  title,
			Author: metadata.JoinNames(v.VolumeInfo.Authors, 2),
			Year:   metadata.ParseYear(v.VolumeInfo.PublishedDate),
			Source: metadata.SourceGoogleBooks,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
