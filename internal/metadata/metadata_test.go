package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingclub/readingclub-server/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestScoreMatch(t *testing.T) {
	tests := []struct {
		name            string
		qTitle, qAuthor string
		cTitle, cAuthor string
		want            int
	}{
		{"exact both", "Dune", "Frank Herbert", "dune", "frank  herbert", 120},
		{"title prefix", "Dune", "", "Dune Messiah", "Frank Herbert", 55},
		{"title contains", "Messiah", "", "Dune Messiah", "", 35},
		{"author prefix", "", "Frank", "", "Frank Herbert", 22},
		{"author contains", "", "Herbert", "", "Frank Herbert", 15},
		{"no match", "Emma", "Austen", "Dune", "Herbert", 0},
		{"empty query", "", "", "Dune", "Herbert", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreMatch(tt.qTitle, tt.qAuthor, tt.cTitle, tt.cAuthor))
		})
	}
}

func TestCountBonus(t *testing.T) {
	assert.Equal(t, 0, CountBonus(0, 40, 12))
	assert.Equal(t, 2, CountBonus(99, 40, 12))
	assert.Equal(t, 12, CountBonus(100000, 40, 12))
}

func TestMapCategory(t *testing.T) {
	tests := []struct {
		subjects []string
		want     string
	}{
		{nil, DefaultCategory},
		{[]string{"Detective and mystery stories"}, "Mystery & Thriller"},
		{[]string{"Science Fiction", "Space"}, "Science Fiction & Fantasy"},
		{[]string{"Physics"}, "Natural Science"},
		{[]string{"Cooking"}, "Lifestyle"},
		{[]string{"Poetry"}, DefaultCategory},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCategory(tt.subjects), "subjects %v", tt.subjects)
	}
}

func TestMergeResources(t *testing.T) {
	in := []domain.Resource{
		{Name: "a", URL: "http://books.google.com/x", Type: ResourceDetails},
		{Name: "dup", URL: "https://books.google.com/x", Type: ResourcePreview},
		{Name: "empty", URL: "  "},
		{URL: "http://archive.org/details/y"},
		{Name: "plain", URL: "http://example.com/z", Type: ResourceSearch},
	}

	got := MergeResources(in)
	require.Len(t, got, 3)
	assert.Equal(t, "https://books.google.com/x", got[0].URL)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, domain.Resource{Name: "Link", URL: "https://archive.org/details/y", Type: ResourceDetails}, got[1])
	assert.Equal(t, "http://example.com/z", got[2].URL, "unknown hosts keep their scheme")
}

func TestMergeResourcesCap(t *testing.T) {
	var in []domain.Resource
	for i := range 12 {
		in = append(in, domain.Resource{Name: "r", URL: "https://example.com/" + string(rune('a'+i))})
	}
	assert.Len(t, MergeResources(in), MaxResources)
}

func TestWithDiscoveryLinks(t *testing.T) {
	t.Run("adds search links when nothing is readable", func(t *testing.T) {
		got := WithDiscoveryLinks([]domain.Resource{{Name: "page", URL: "https://x", Type: ResourceDetails}}, "Dune", "Herbert")
		require.Len(t, got, 3)
		assert.Equal(t, "https://openlibrary.org/search?q=Dune+Herbert", got[1].URL)
		assert.Equal(t, ResourceSearch, got[2].Type)
	})

	t.Run("keeps readable resources as-is", func(t *testing.T) {
		got := WithDiscoveryLinks([]domain.Resource{{Name: "epub", URL: "https://x", Type: ResourceEbook}}, "Dune", "")
		assert.Len(t, got, 1)
	})
}

func TestMergeCandidates(t *testing.T) {
	ol := Candidate{
		Title: "Dune", Author: "Frank Herbert",
		Rating: ptr(4.3), RatingSource: SourceOpenLibrary,
		Category: "Science Fiction & Fantasy", Cover: "https://covers/1.jpg",
		Year: ptr(1965), Source: SourceOpenLibrary, Score: 140, WorkKey: "/works/OL1W",
		Resources: []domain.Resource{{Name: "ol", URL: "https://openlibrary.org/works/OL1W", Type: ResourceDetails}},
	}
	gb := Candidate{
		Title: "DUNE", Author: "Frank Herbert",
		Synopsis: "Desert planet.", Category: DefaultCategory,
		Source: SourceGoogleBooks, Score: 100,
		Resources: []domain.Resource{{Name: "gb", URL: "https://books.google.com/b", Type: ResourcePreview}},
	}
	other := Candidate{Title: "Emma", Author: "Jane Austen", Source: SourceGutendex, Score: 90}
	blank := Candidate{Title: "", Author: "  "}

	got := MergeCandidates([]Candidate{ol, other, gb, blank})
	require.Len(t, got, 2)

	dune := got[0]
	assert.Equal(t, "Dune", dune.Title, "higher score wins")
	assert.Equal(t, 140, dune.Score)
	assert.Equal(t, "Desert planet.", dune.Synopsis)
	assert.Equal(t, "https://covers/1.jpg", dune.Cover)
	assert.Equal(t, "Science Fiction & Fantasy", dune.Category)
	assert.Equal(t, "/works/OL1W", dune.WorkKey)
	assert.Equal(t, []string{SourceOpenLibrary, SourceGoogleBooks}, dune.Sources)
	assert.Equal(t, "Open Library / Google Books", dune.Source)
	assert.Len(t, dune.Resources, 2)

	assert.Equal(t, "Emma", got[1].Title)
	assert.Equal(t, []string{SourceGutendex}, got[1].Sources)
}

func TestMergeCandidatesBackupFillsGaps(t *testing.T) {
	low := Candidate{Title: "Dune", Author: "Herbert", Rating: ptr(4.0), RatingSource: SourceGoogleBooks, Year: ptr(1965), Category: "Science Fiction & Fantasy", Source: SourceGoogleBooks, Score: 10}
	high := Candidate{Title: "Dune", Author: "Herbert", Category: DefaultCategory, Source: SourceGutendex, Score: 50}

	got := MergeCandidates([]Candidate{low, high})
	require.Len(t, got, 1)
	assert.Equal(t, 50, got[0].Score)
	assert.Equal(t, 4.0, *got[0].Rating)
	assert.Equal(t, SourceGoogleBooks, got[0].RatingSource)
	assert.Equal(t, 1965, *got[0].Year)
	assert.Equal(t, "Science Fiction & Fantasy", got[0].Category)
}

func TestRank(t *testing.T) {
	cands := []Candidate{
		{Title: "no synopsis, high score", Score: 200},
		{Title: "synopsis, low score", Synopsis: "x", Score: 10},
		{Title: "synopsis, high score", Synopsis: "x", Score: 90},
		{Title: "synopsis, high score, rated", Synopsis: "x", Score: 90, Rating: ptr(4.5)},
	}

	Rank(cands)

	titles := make([]string, len(cands))
	for i, c := range cands {
		titles[i] = c.Title
	}
	assert.Equal(t, []string{
		"synopsis, high score, rated",
		"synopsis, high score",
		"synopsis, low score",
		"no synopsis, high score",
	}, titles)
}

func TestCleanSynopsis(t *testing.T) {
	assert.Equal(t, "plain text", CleanSynopsis("  plain text "))
	assert.Equal(t, "", CleanSynopsis(""))
	assert.Equal(t, "Hello **world**", CleanSynopsis("<p>Hello <strong>world</strong></p>"))
	assert.Equal(t, "1 < 2", CleanSynopsis("1 < 2"), "a bare angle bracket is not HTML")
}

func TestRoundRatingAndParseYear(t *testing.T) {
	assert.Nil(t, RoundRating(0))
	assert.Equal(t, 3.9, *RoundRating(3.876))

	assert.Equal(t, 2001, *ParseYear("2001-09-11"))
	assert.Nil(t, ParseYear("19"))
	assert.Nil(t, ParseYear("c.1900"))
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "A, B", JoinNames([]string{"A", "", "B", "C"}, 2))
	assert.Equal(t, "", JoinNames(nil, 2))
}
