// Package sse implements Server-Sent Events for live catalog updates.
package sse

import (
	"time"

	"github.com/readingclub/readingclub-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated is sent when a book is added to the catalog.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated is sent when a book's fields change.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted is sent when a book and its discussion are removed.
	EventBookDeleted EventType = "book.deleted"
	// EventBookVoted is sent when a member toggles interest in a book.
	EventBookVoted EventType = "book.voted"

	EventReviewCreated  EventType = "review.created"
	EventReviewDeleted  EventType = "review.deleted"
	EventCommentCreated EventType = "comment.created"
	EventCommentDeleted EventType = "comment.deleted"

	// EventCatalogReloaded is sent after the data file was edited outside the server.
	EventCatalogReloaded EventType = "catalog.reloaded"

	// EventHeartbeat keeps idle connections open.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BookEventData is the payload for book created, updated, and voted events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// VoteEventData is the payload for vote events.
type VoteEventData struct {
	Book   *domain.Book `json:"book"`
	UserID string       `json:"userId"`
	Voted  bool         `json:"voted"`
}

// BookDeletedEventData is the payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt  time.Time `json:"deletedAt"`
	BookID     string    `json:"bookId"`
	ReviewIDs  []string  `json:"reviewIds"`
	CommentIDs []string  `json:"commentIds"`
}

// ReviewEventData is the payload for review created events.
type ReviewEventData struct {
	Review *domain.Review `json:"review"`
	BookID string         `json:"bookId"`
}

// ReviewDeletedEventData is the payload for review delete events.
type ReviewDeletedEventData struct {
	BookID     string   `json:"bookId"`
	ReviewID   string   `json:"reviewId"`
	CommentIDs []string `json:"commentIds"`
}

// CommentEventData is the payload for comment created events.
type CommentEventData struct {
	Comment  *domain.Comment `json:"comment"`
	BookID   string          `json:"bookId"`
	ReviewID string          `json:"reviewId"`
}

// CommentDeletedEventData is the payload for comment delete events.
type CommentDeletedEventData struct {
	BookID    string `json:"bookId"`
	ReviewID  string `json:"reviewId"`
	CommentID string `json:"commentId"`
}

// CatalogReloadedEventData is the payload for catalog reload events.
type CatalogReloadedEventData struct {
	Stats domain.Stats `json:"stats"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"serverTime"`
}

func newEvent(t EventType, data any) Event {
	return Event{Type: t, Data: data, Timestamp: time.Now()}
}

// NewBookCreatedEvent creates a book.created event.
func NewBookCreatedEvent(b *domain.Book) Event {
	return newEvent(EventBookCreated, BookEventData{Book: b})
}

// NewBookUpdatedEvent creates a book.updated event.
func NewBookUpdatedEvent(b *domain.Book) Event {
	return newEvent(EventBookUpdated, BookEventData{Book: b})
}

// NewBookVotedEvent creates a book.voted event.
func NewBookVotedEvent(b *domain.Book, userID string, voted bool) Event {
	return newEvent(EventBookVoted, VoteEventData{Book: b, UserID: userID, Voted: voted})
}

// NewBookDeletedEvent creates a book.deleted event listing the cascaded children.
func NewBookDeletedEvent(rm domain.Removal) Event {
	return newEvent(EventBookDeleted, BookDeletedEventData{
		BookID:     rm.BookID,
		ReviewIDs:  rm.ReviewIDs,
		CommentIDs: rm.CommentIDs,
		DeletedAt:  time.Now(),
	})
}

// NewReviewCreatedEvent creates a review.created event.
func NewReviewCreatedEvent(bookID string, r *domain.Review) Event {
	return newEvent(EventReviewCreated, ReviewEventData{BookID: bookID, Review: r})
}

// NewReviewDeletedEvent creates a review.deleted event.
func NewReviewDeletedEvent(bookID string, rm domain.Removal) Event {
	data := ReviewDeletedEventData{BookID: bookID, CommentIDs: rm.CommentIDs}
	if len(rm.ReviewIDs) > 0 {
		data.ReviewID = rm.ReviewIDs[0]
	}
	return newEvent(EventReviewDeleted, data)
}

// NewCommentCreatedEvent creates a comment.created event.
func NewCommentCreatedEvent(bookID, reviewID string, c *domain.Comment) Event {
	return newEvent(EventCommentCreated, CommentEventData{BookID: bookID, ReviewID: reviewID, Comment: c})
}

// NewCommentDeletedEvent creates a comment.deleted event.
func NewCommentDeletedEvent(bookID, reviewID, commentID string) Event {
	return newEvent(EventCommentDeleted, CommentDeletedEventData{BookID: bookID, ReviewID: reviewID, CommentID: commentID})
}

// NewCatalogReloadedEvent creates a catalog.reloaded event.
func NewCatalogReloadedEvent(stats domain.Stats) Event {
	return newEvent(EventCatalogReloaded, CatalogReloadedEventData{Stats: stats})
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return newEvent(EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
