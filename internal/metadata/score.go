package metadata

import (
	"strings"

	"github.com/readingclub/readingclub-server/internal/normalize"
)

// Match weights for title and author comparisons.
const (
	titleExact    = 85
	titlePrefix   = 55
	titleContains = 35

	authorExact    = 35
	authorPrefix   = 22
	authorContains = 15
)

// ScoreMatch rates how well a candidate's title and author match the query.
// An empty query field contributes nothing.
func ScoreMatch(queryTitle, queryAuthor, title, author string) int {
	return scoreField(queryTitle, title, titleExact, titlePrefix, titleContains) +
		scoreField(queryAuthor, author, authorExact, authorPrefix, authorContains)
}

func scoreField(query, value string, exact, prefix, contains int) int {
	q := normalize.Text(query)
	if q == "" {
		return 0
	}
	v := normalize.Text(value)
	switch {
	case v == q:
		return exact
	case strings.HasPrefix(v, q):
		return prefix
	case strings.Contains(v, q):
		return contains
	}
	return 0
}

// CountBonus converts a ratings or download count into a capped bonus.
func CountBonus(count, per, cap int) int {
	if count <= 0 || per <= 0 {
		return 0
	}
	return min(cap, count/per)
}
