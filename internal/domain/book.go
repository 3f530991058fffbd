package domain

import "time"

// Default values applied when callers leave a field empty.
const (
	DefaultCategory = "uncategorized"
	DefaultUser     = "anonymous"
)

// Status is where a book sits in the group's reading queue.
type Status string

// Book statuses. Any status may follow any other.
const (
	StatusCandidate Status = "candidate"
	StatusReading   Status = "reading"
	StatusFinished  Status = "finished"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusCandidate, StatusReading, StatusFinished:
		return true
	}
	return false
}

// Resource links to somewhere the book can be read, borrowed, or bought.
type Resource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Book is a catalog entry. It exclusively owns its reviews.
type Book struct {
	AddedAt      time.Time  `json:"addedAt"`
	Rating       any        `json:"rating"` // stored exactly as supplied, may be nil
	Votes        Votes      `json:"votes"`
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Synopsis     string     `json:"synopsis"`
	RatingSource string     `json:"ratingSource"`
	Category     string     `json:"category"`
	Cover        string     `json:"cover"`
	AddedBy      string     `json:"addedBy"`
	Status       Status     `json:"status"`
	Resources    []Resource `json:"resources"`
	Reviews      []*Review  `json:"reviews"`
}

// FindReview returns the index and review with the given ID, or -1 and nil.
func (b *Book) FindReview(id string) (int, *Review) {
	for i, r := range b.Reviews {
		if r.ID == id {
			return i, r
		}
	}
	return -1, nil
}

// AppendReview adds a review at the end of the book's discussion.
func (b *Book) AppendReview(r *Review) {
	b.Reviews = append(b.Reviews, r)
}

// RemoveReviewAt removes and returns the review at index i along with its comments.
func (b *Book) RemoveReviewAt(i int) *Review {
	r := b.Reviews[i]
	b.Reviews = append(b.Reviews[:i], b.Reviews[i+1:]...)
	return r
}

func (b *Book) normalize() {
	if b.Votes == nil {
		b.Votes = Votes{}
	}
	if b.Resources == nil {
		b.Resources = []Resource{}
	}
	if b.Reviews == nil {
		b.Reviews = []*Review{}
	}
	kept := b.Reviews[:0]
	for _, r := range b.Reviews {
		if r == nil {
			continue
		}
		r.normalize()
		kept = append(kept, r)
	}
	b.Reviews = kept
}

// Review is one member's take on a book. It exclusively owns its comments.
type Review struct {
	CreatedAt time.Time  `json:"createdAt"`
	Rating    any        `json:"rating"`
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Content   string     `json:"content"`
	Comments  []*Comment `json:"comments"`
}

func (r *Review) normalize() {
	if r.Comments == nil {
		r.Comments = []*Comment{}
	}
	kept := r.Comments[:0]
	for _, c := range r.Comments {
		if c != nil {
			kept = append(kept, c)
		}
	}
	r.Comments = kept
}

// FindComment returns the index and comment with the given ID, or -1 and nil.
func (r *Review) FindComment(id string) (int, *Comment) {
	for i, c := range r.Comments {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

// AppendComment adds a comment at the end of the review's thread.
func (r *Review) AppendComment(c *Comment) {
	r.Comments = append(r.Comments, c)
}

// RemoveCommentAt removes and returns the comment at index i.
func (r *Review) RemoveCommentAt(i int) *Comment {
	c := r.Comments[i]
	r.Comments = append(r.Comments[:i], r.Comments[i+1:]...)
	return c
}

// Comment is a reply under a review.
type Comment struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
}
