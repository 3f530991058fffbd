package metadata

import (
	"fmt"
	"strings"
)

// fallbackSynopsisPrefix opens every synopsis produced by FallbackSynopsis.
const fallbackSynopsisPrefix = "No public description available."

// NeedsEnrichment reports whether a candidate is missing any of synopsis,
// cover, rating, or a specific category.
func NeedsEnrichment(c Candidate) bool {
	return !HasRealSynopsis(c.Synopsis) ||
		c.Cover == "" ||
		c.Rating == nil ||
		c.Category == "" || c.Category == DefaultCategory
}

// BestMatch returns the highest-scoring candidate. The first one wins ties.
func BestMatch(found []Candidate) (Candidate, bool) {
	if len(found) == 0 {
		return Candidate{}, false
	}
	best := found[0]
	for _, c := range found[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}

// FillGaps copies the fields c lacks from a looked-up match. Fields c
// already has are kept; resources are merged.
func FillGaps(c *Candidate, match Candidate) {
	if !HasRealSynopsis(c.Synopsis) && HasRealSynopsis(match.Synopsis) {
		c.Synopsis = match.Synopsis
	}
	if (c.Category == "" || c.Category == DefaultCategory) && match.Category != "" {
		c.Category = match.Category
	}
	if c.Cover == "" {
		c.Cover = match.Cover
	}
	if c.Rating == nil && match.Rating != nil {
		c.Rating = match.Rating
		c.RatingSource = match.RatingSource
	}
	if c.WorkKey == "" {
		c.WorkKey = match.WorkKey
	}
	c.Resources = MergeResources(c.Resources, match.Resources)
}

// FallbackSynopsis describes a candidate from what is known about it, for
// books no provider has a description for.
func FallbackSynopsis(c Candidate) string {
	var parts []string
	if c.Author != "" {
		parts = append(parts, "Author: "+c.Author)
	}
	if c.Year != nil {
		parts = append(parts, fmt.Sprintf("Published: %d", *c.Year))
	}
	if c.Category != "" {
		parts = append(parts, "Category: "+c.Category)
	}
	if c.Source != "" {
		parts = append(parts, "Source: "+c.Source)
	}

	if len(parts) == 0 {
		return fallbackSynopsisPrefix + " See the links below for details or a preview."
	}
	return fmt.Sprintf("%s %s. See the links below for details or a preview.",
		fallbackSynopsisPrefix, strings.Join(parts, "; "))
}
