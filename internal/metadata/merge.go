package metadata

import (
	"cmp"
	"slices"
	"strings"

	"github.com/readingclub/readingclub-server/internal/normalize"
)

// MergeCandidates collapses candidates that share a normalized title|author
// key, keeping first-seen order. The higher-scoring side is preferred; the
// other fills in anything it lacks. Candidates whose key is empty are dropped.
func MergeCandidates(candidates []Candidate) []Candidate {
	merged := make([]Candidate, 0, len(candidates))
	index := make(map[string]int)

	for _, c := range candidates {
		key := normalize.Key(c.Title, c.Author)
		if key == "" {
			continue
		}
		if c.Source != "" && len(c.Sources) == 0 {
			c.Sources = []string{c.Source}
		}

		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, c)
			continue
		}
		merged[i] = combine(merged[i], c)
	}
	return merged
}

func combine(current, item Candidate) Candidate {
	preferred, backup := current, item
	if item.Score > current.Score {
		preferred, backup = item, current
	}

	out := preferred
	if out.Synopsis == "" || len(backup.Synopsis) > len(out.Synopsis) {
		out.Synopsis = backup.Synopsis
	}
	if out.Cover == "" {
		out.Cover = backup.Cover
	}
	if out.Rating == nil && backup.Rating != nil {
		out.Rating = backup.Rating
		out.RatingSource = backup.RatingSource
	}
	if out.Year == nil {
		out.Year = backup.Year
	}
	if (out.Category == "" || out.Category == DefaultCategory) && backup.Category != "" {
		out.Category = backup.Category
	}
	if out.WorkKey == "" {
		out.WorkKey = backup.WorkKey
	}

	out.Resources = MergeResources(current.Resources, item.Resources)

	out.Sources = nil
	for _, s := range append(slices.Clone(current.Sources), item.Sources...) {
		if s != "" && !slices.Contains(out.Sources, s) {
			out.Sources = append(out.Sources, s)
		}
	}
	out.Source = strings.Join(out.Sources, " / ")
	return out
}

// Rank orders candidates by (has synopsis, score, rating), best first.
// Equal candidates keep their relative order.
func Rank(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(boolRank(HasRealSynopsis(b.Synopsis)), boolRank(HasRealSynopsis(a.Synopsis))); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(ratingValue(b.Rating), ratingValue(a.Rating))
	})
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ratingValue(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}
