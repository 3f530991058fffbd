package domain

// Removal describes everything discarded by a cascading delete.
type Removal struct {
	BookID     string
	ReviewIDs  []string
	CommentIDs []string
}

// Descendants counts the reviews and comments owned by the book.
func (b *Book) Descendants() (reviews, comments int) {
	for _, r := range b.Reviews {
		reviews++
		comments += len(r.Comments)
	}
	return reviews, comments
}

// CascadeBook lists the book and every review and comment it owns.
// Deleting the book discards all of them.
func CascadeBook(b *Book) Removal {
	rm := Removal{BookID: b.ID}
	for _, r := range b.Reviews {
		sub := CascadeReview(r)
		rm.ReviewIDs = append(rm.ReviewIDs, sub.ReviewIDs...)
		rm.CommentIDs = append(rm.CommentIDs, sub.CommentIDs...)
	}
	return rm
}

// CascadeReview lists the review and every comment it owns.
func CascadeReview(r *Review) Removal {
	rm := Removal{ReviewIDs: []string{r.ID}}
	for _, c := range r.Comments {
		rm.CommentIDs = append(rm.CommentIDs, c.ID)
	}
	return rm
}
