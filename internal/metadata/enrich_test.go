package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingclub/readingclub-server/internal/domain"
)

func TestNeedsEnrichment(t *testing.T) {
	complete := Candidate{Synopsis: "Spice.", Cover: "c.jpg", Rating: ptr(4.0), Category: "Science Fiction"}
	assert.False(t, NeedsEnrichment(complete))

	tests := map[string]func(*Candidate){
		"no synopsis":       func(c *Candidate) { c.Synopsis = "" },
		"fallback synopsis": func(c *Candidate) { c.Synopsis = FallbackSynopsis(*c) },
		"no cover":          func(c *Candidate) { c.Cover = "" },
		"no rating":         func(c *Candidate) { c.Rating = nil },
		"default category":  func(c *Candidate) { c.Category = DefaultCategory },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := complete
			mutate(&c)
			assert.True(t, NeedsEnrichment(c))
		})
	}
}

func TestBestMatch(t *testing.T) {
	_, ok := BestMatch(nil)
	assert.False(t, ok)

	best, ok := BestMatch([]Candidate{
		{Title: "first", Score: 50},
		{Title: "top", Score: 90},
		{Title: "tied", Score: 90},
	})
	require.True(t, ok)
	assert.Equal(t, "top", best.Title)
}

func TestFillGaps(t *testing.T) {
	c := Candidate{
		Title:     "Dune",
		Synopsis:  "Spice.",
		Category:  DefaultCategory,
		Resources: []domain.Resource{{Name: "Open Library", URL: "https://openlibrary.org/works/OL1W", Type: ResourceDetails}},
	}
	match := Candidate{
		Synopsis:     "Other text.",
		Category:     "Science Fiction",
		Cover:        "https://covers/dune.jpg",
		Rating:       ptr(4.3),
		RatingSource: SourceGoogleBooks,
		WorkKey:      "/works/OL1W",
		Resources:    []domain.Resource{{Name: "Preview", URL: "https://books.google.com/dune", Type: ResourcePreview}},
	}

	FillGaps(&c, match)

	assert.Equal(t, "Spice.", c.Synopsis)
	assert.Equal(t, "Science Fiction", c.Category)
	assert.Equal(t, "https://covers/dune.jpg", c.Cover)
	require.NotNil(t, c.Rating)
	assert.InDelta(t, 4.3, *c.Rating, 0.001)
	assert.Equal(t, SourceGoogleBooks, c.RatingSource)
	assert.Equal(t, "/works/OL1W", c.WorkKey)
	assert.Len(t, c.Resources, 2)

	c.Synopsis = FallbackSynopsis(c)
	FillGaps(&c, Candidate{Synopsis: "Real description.", Cover: "https://covers/other.jpg"})
	assert.Equal(t, "Real description.", c.Synopsis, "a fallback synopsis is replaced")
	assert.Equal(t, "https://covers/dune.jpg", c.Cover, "an existing cover is kept")
}

func TestFallbackSynopsis(t *testing.T) {
	got := FallbackSynopsis(Candidate{Author: "Frank Herbert", Year: ptr(1965), Category: "Science Fiction", Source: SourceOpenLibrary})
	assert.Equal(t,
		"No public description available. Author: Frank Herbert; Published: 1965; Category: Science Fiction; Source: Open Library. See the links below for details or a preview.",
		got)
	assert.False(t, HasRealSynopsis(got))

	assert.Equal(t,
		"No public description available. See the links below for details or a preview.",
		FallbackSynopsis(Candidate{}))
}
