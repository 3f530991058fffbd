package metadata

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// CleanSynopsis converts HTML descriptions to Markdown and trims the result.
// Plain text is returned trimmed but otherwise unchanged.
func CleanSynopsis(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// HasRealSynopsis reports whether a candidate carries descriptive text
// rather than nothing or a FallbackSynopsis placeholder.
func HasRealSynopsis(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.HasPrefix(s, fallbackSynopsisPrefix)
}
