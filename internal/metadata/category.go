package metadata

import "strings"

// DefaultCategory is used when no subject keyword matches.
const DefaultCategory = "Fiction & Literature"

var categoryKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"science fiction", "fantasy", "dystopia"}, "Science Fiction & Fantasy"},
	{[]string{"mystery", "detective", "crime", "thriller"}, "Mystery & Thriller"},
	{[]string{"history", "biography", "memoir"}, "History & Biography"},
	{[]string{"philosophy", "ethics"}, "Philosophy"},
	{[]string{"sociology", "politics", "culture", "society"}, "Social Science"},
	{[]string{"science", "physics", "biology", "chemistry"}, "Natural Science"},
	{[]string{"psychology", "mental"}, "Psychology"},
	{[]string{"business", "economics", "management", "finance"}, "Business & Economics"},
	{[]string{"computer", "technology", "programming", "ai"}, "Technology"},
	{[]string{"art", "design", "music"}, "Art & Design"},
	{[]string{"health", "cooking", "lifestyle"}, "Lifestyle"},
}

// MapCategory picks a category from provider subjects. The first keyword
// group with a substring hit wins, in the order above.
func MapCategory(subjects []string) string {
	if len(subjects) == 0 {
		return DefaultCategory
	}
	joined := strings.ToLower(strings.Join(subjects, " "))
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(joined, kw) {
				return group.category
			}
		}
	}
	return DefaultCategory
}
