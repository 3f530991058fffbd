package domain

import "time"

// NewBook holds the caller-suppliable fields of a book.
type NewBook struct {
	Rating       any
	Title        string
	Author       string
	Synopsis     string
	RatingSource string
	Category     string
	Cover        string
	AddedBy      string
	Resources    []Resource
}

// Build creates a candidate book with empty votes and reviews, applying
// defaults for category and addedBy.
func (n NewBook) Build(id string, now time.Time) *Book {
	resources := n.Resources
	if resources == nil {
		resources = []Resource{}
	}
	return &Book{
		ID:           id,
		Title:        n.Title,
		Author:       n.Author,
		Synopsis:     n.Synopsis,
		Rating:       n.Rating,
		RatingSource: n.RatingSource,
		Category:     orDefault(n.Category, DefaultCategory),
		Cover:        n.Cover,
		Resources:    resources,
		AddedBy:      orDefault(n.AddedBy, DefaultUser),
		AddedAt:      now,
		Status:       StatusCandidate,
		Votes:        Votes{},
		Reviews:      []*Review{},
	}
}

// BookPatch is a partial update. Nil fields are left untouched.
// Rating uses RatingSet because an explicit null clears the rating.
type BookPatch struct {
	Rating       any
	Title        *string
	Author       *string
	Synopsis     *string
	RatingSource *string
	Category     *string
	Cover        *string
	Status       *Status
	RatingSet    bool
}

// Apply overwrites the supplied fields on b. ID, votes, reviews, addedAt,
// and addedBy are never touched.
func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Synopsis != nil {
		b.Synopsis = *p.Synopsis
	}
	if p.RatingSet {
		b.Rating = p.Rating
	}
	if p.RatingSource != nil {
		b.RatingSource = *p.RatingSource
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Cover != nil {
		b.Cover = *p.Cover
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
}

// Fields lists the JSON names of the supplied fields, for logging.
func (p BookPatch) Fields() []string {
	var fields []string
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Author != nil {
		fields = append(fields, "author")
	}
	if p.Synopsis != nil {
		fields = append(fields, "synopsis")
	}
	if p.RatingSet {
		fields = append(fields, "rating")
	}
	if p.RatingSource != nil {
		fields = append(fields, "ratingSource")
	}
	if p.Category != nil {
		fields = append(fields, "category")
	}
	if p.Cover != nil {
		fields = append(fields, "cover")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

// NewReview holds the caller-suppliable fields of a review.
type NewReview struct {
	Rating  any
	UserID  string
	Content string
}

// Build creates a review with an empty comment thread.
func (n NewReview) Build(id string, now time.Time) *Review {
	return &Review{
		ID:        id,
		UserID:    orDefault(n.UserID, DefaultUser),
		Content:   n.Content,
		Rating:    n.Rating,
		CreatedAt: now,
		Comments:  []*Comment{},
	}
}

// NewComment holds the caller-suppliable fields of a comment.
type NewComment struct {
	UserID  string
	Content string
}

// Build creates a comment.
func (n NewComment) Build(id string, now time.Time) *Comment {
	return &Comment{
		ID:        id,
		UserID:    orDefault(n.UserID, DefaultUser),
		Content:   n.Content,
		CreatedAt: now,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
