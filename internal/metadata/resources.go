package metadata

import (
	"net/url"
	"strings"

	"github.com/readingclub/readingclub-server/internal/domain"
)

// Resource types.
const (
	ResourceDetails = "details"
	ResourcePreview = "preview"
	ResourceRead    = "read online"
	ResourceEbook   = "ebook"
	ResourceBorrow  = "borrow"
	ResourceSearch  = "search"
)

// MaxResources caps the links attached to one candidate.
const MaxResources = 8

var httpsUpgradePrefixes = []string{
	"http://books.google.com",
	"http://play.google.com",
	"http://archive.org",
}

func normalizeResourceURL(raw string) string {
	u := strings.TrimSpace(raw)
	for _, prefix := range httpsUpgradePrefixes {
		if strings.HasPrefix(u, prefix) {
			return "https://" + strings.TrimPrefix(u, "http://")
		}
	}
	return u
}

// MergeResources dedupes resources by URL in first-seen order, upgrades
// known hosts to https, drops empty URLs, and caps the result.
func MergeResources(resources ...[]domain.Resource) []domain.Resource {
	merged := make([]domain.Resource, 0, MaxResources)
	seen := make(map[string]struct{})
	for _, list := range resources {
		for _, r := range list {
			u := normalizeResourceURL(r.URL)
			if u == "" {
				continue
			}
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			if r.Name == "" {
				r.Name = "Link"
			}
			if r.Type == "" {
				r.Type = ResourceDetails
			}
			r.URL = u
			merged = append(merged, r)
			if len(merged) == MaxResources {
				return merged
			}
		}
	}
	return merged
}

// HasReadable reports whether any resource lets the reader get at the text.
func HasReadable(resources []domain.Resource) bool {
	for _, r := range resources {
		switch r.Type {
		case ResourceEbook, ResourceRead, ResourceBorrow:
			return true
		}
	}
	return false
}

// WithDiscoveryLinks appends search links on public catalogs when the
// candidate has nothing directly readable.
func WithDiscoveryLinks(resources []domain.Resource, title, author string) []domain.Resource {
	if HasReadable(resources) {
		return MergeResources(resources)
	}
	q := url.QueryEscape(strings.TrimSpace(title + " " + author))
	return MergeResources(resources, []domain.Resource{
		{Name: "Open Library search", URL: "https://openlibrary.org/search?q=" + q, Type: ResourceSearch},
		{Name: "Google Play Books search", URL: "https://play.google.com/store/search?q=" + q + "&c=books", Type: ResourceSearch},
	})
}
