package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewBook_BuildDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b := NewBook{Title: "Dune", Author: "Herbert"}.Build("book-1", now)

	assert.Equal(t, "book-1", b.ID)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, DefaultCategory, b.Category)
	assert.Equal(t, DefaultUser, b.AddedBy)
	assert.Equal(t, StatusCandidate, b.Status)
	assert.Equal(t, now, b.AddedAt)
	assert.Nil(t, b.Rating)
	assert.Empty(t, b.Votes)
	assert.NotNil(t, b.Votes)
	assert.Empty(t, b.Reviews)
	assert.NotNil(t, b.Resources)
}

func TestBookPatch_ApplyOnlySuppliedFields(t *testing.T) {
	now := time.Now().UTC()
	b := NewBook{Title: "Dune", Author: "Herbert", Rating: 4.5, AddedBy: "alice"}.Build("book-1", now)
	b.Votes.Toggle("bob")

	BookPatch{Status: ptr(StatusReading)}.Apply(b)

	assert.Equal(t, StatusReading, b.Status)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, 4.5, b.Rating)
	assert.Equal(t, "alice", b.AddedBy)
	assert.True(t, b.Votes.Has("bob"))
}

func TestBookPatch_ExplicitNullRatingClears(t *testing.T) {
	b := NewBook{Rating: 3}.Build("book-1", time.Now())

	BookPatch{}.Apply(b)
	assert.Equal(t, 3, b.Rating)

	BookPatch{RatingSet: true}.Apply(b)
	assert.Nil(t, b.Rating)
}

func TestBookPatch_Fields(t *testing.T) {
	p := BookPatch{Title: ptr("x"), RatingSet: true, Status: ptr(StatusFinished)}
	assert.Equal(t, []string{"title", "rating", "status"}, p.Fields())
	assert.Empty(t, BookPatch{}.Fields())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusCandidate.Valid())
	assert.True(t, StatusReading.Valid())
	assert.True(t, StatusFinished.Valid())
	assert.False(t, Status("abandoned").Valid())
	assert.False(t, Status("").Valid())
}

func TestReviewAndComment_Build(t *testing.T) {
	now := time.Now().UTC()

	r := NewReview{Content: "great"}.Build("review-1", now)
	assert.Equal(t, DefaultUser, r.UserID)
	assert.Nil(t, r.Rating)
	assert.NotNil(t, r.Comments)

	c := NewComment{UserID: "bob", Content: "agree"}.Build("comment-1", now)
	assert.Equal(t, "bob", c.UserID)
	assert.Equal(t, now, c.CreatedAt)
}

func TestVotes_Toggle(t *testing.T) {
	v := Votes{}

	assert.True(t, v.Toggle("alice"))
	assert.True(t, v.Has("alice"))
	assert.Equal(t, 1, v.Count())

	assert.False(t, v.Toggle("alice"))
	assert.False(t, v.Has("alice"))
	assert.Equal(t, 0, v.Count())
}

func TestVotes_JSON(t *testing.T) {
	var nilVotes Votes
	data, err := json.Marshal(nilVotes)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	var v Votes
	require.NoError(t, json.Unmarshal([]byte(`{"alice":true,"bob":false,"carol":1}`), &v))
	assert.Equal(t, []string{"alice", "carol"}, v.Users())
}

func TestCatalog_NormalizeFillsMissingCollections(t *testing.T) {
	raw := `{"books":[{"id":"b1","title":"Dune","reviews":[{"id":"r1"}]}, null]}`

	var c Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	c.Normalize()

	require.Len(t, c.Books, 1)
	assert.NotNil(t, c.Books[0].Votes)
	assert.NotNil(t, c.Books[0].Resources)
	require.Len(t, c.Books[0].Reviews, 1)
	assert.NotNil(t, c.Books[0].Reviews[0].Comments)

	var empty Catalog
	empty.Normalize()
	assert.NotNil(t, empty.Books)
}

func TestCatalog_NormalizeDropsNullComments(t *testing.T) {
	raw := `{"books":[{"id":"b1","reviews":[{"id":"r1","comments":[null,{"id":"c1"},null]}]}]}`

	var c Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	c.Normalize()

	review := c.Books[0].Reviews[0]
	require.Len(t, review.Comments, 1)
	assert.Equal(t, "c1", review.Comments[0].ID)

	i, comment := review.FindComment("missing")
	assert.Equal(t, -1, i)
	assert.Nil(t, comment)
	assert.Equal(t, 1, c.Stats().Comments)
}

func TestCatalog_RemoveKeepsOrder(t *testing.T) {
	c := NewCatalog()
	for _, id := range []string{"a", "b", "c"} {
		c.AppendBook(&Book{ID: id})
	}

	i, b := c.FindBook("b")
	require.NotNil(t, b)
	removed := c.RemoveBookAt(i)

	assert.Equal(t, "b", removed.ID)
	assert.Equal(t, "a", c.Books[0].ID)
	assert.Equal(t, "c", c.Books[1].ID)

	i, b = c.FindBook("b")
	assert.Equal(t, -1, i)
	assert.Nil(t, b)
}

func TestCascadeBook(t *testing.T) {
	b := &Book{ID: "b1"}
	r1 := &Review{ID: "r1", Comments: []*Comment{{ID: "c1"}, {ID: "c2"}}}
	r2 := &Review{ID: "r2"}
	b.AppendReview(r1)
	b.AppendReview(r2)

	rm := CascadeBook(b)
	assert.Equal(t, "b1", rm.BookID)
	assert.Equal(t, []string{"r1", "r2"}, rm.ReviewIDs)
	assert.Equal(t, []string{"c1", "c2"}, rm.CommentIDs)

	reviews, comments := b.Descendants()
	assert.Equal(t, 2, reviews)
	assert.Equal(t, 2, comments)
}

func TestCatalog_Stats(t *testing.T) {
	c := NewCatalog()
	b := NewBook{Title: "Dune"}.Build("b1", time.Now())
	b.Votes.Toggle("alice")
	r := NewReview{}.Build("r1", time.Now())
	r.AppendComment(NewComment{}.Build("c1", time.Now()))
	b.AppendReview(r)
	c.AppendBook(b)

	assert.Equal(t, Stats{Books: 1, Reviews: 1, Comments: 1, Votes: 1}, c.Stats())
}
