// Package search provides full-text search over the reading list using Bleve.
// Each book is indexed as one document with its review and comment text
// denormalized in, so a single query covers the whole discussion.
package search

import (
	"strings"

	"github.com/readingclub/readingclub-server/internal/domain"
)

// Document is the indexed form of a book.
type Document struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Synopsis string `json:"synopsis,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	AddedBy  string `json:"added_by,omitempty"`

	// Discussion text, flattened.
	Reviews  string `json:"reviews,omitempty"`
	Comments string `json:"comments,omitempty"`

	Votes   int   `json:"votes"`
	AddedAt int64 `json:"added_at"` // Unix millis
}

// ToMap converts the document to a map with the field names used by the
// index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":       d.ID,
		"title":    d.Title,
		"votes":    d.Votes,
		"added_at": d.AddedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Synopsis != "" {
		m["synopsis"] = d.Synopsis
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if d.Status != "" {
		m["status"] = d.Status
	}
	if d.AddedBy != "" {
		m["added_by"] = d.AddedBy
	}
	if d.Reviews != "" {
		m["reviews"] = d.Reviews
	}
	if d.Comments != "" {
		m["comments"] = d.Comments
	}

	return m
}

// BookToDocument converts a catalog book to its search document.
func BookToDocument(book *domain.Book) *Document {
	var reviews, comments []string
	for _, r := range book.Reviews {
		if r == nil {
			continue
		}
		if r.Content != "" {
			reviews = append(reviews, r.Content)
		}
		for _, c := range r.Comments {
			if c != nil && c.Content != "" {
				comments = append(comments, c.Content)
			}
		}
	}

	return &Document{
		ID:       book.ID,
		Title:    book.Title,
		Author:   book.Author,
		Synopsis: book.Synopsis,
		Category: book.Category,
		Status:   string(book.Status),
		AddedBy:  book.AddedBy,
		Reviews:  strings.Join(reviews, "\n"),
		Comments: strings.Join(comments, "\n"),
		Votes:    book.Votes.Count(),
		AddedAt:  book.AddedAt.UnixMilli(),
	}
}
