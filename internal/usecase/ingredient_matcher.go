package usecase

import (
	"strings"

	"github.com/safescan/backend/internal/domain"
)

// FindMatches reports which watched terms occur in a product's ingredient text.
//
// Both the text and each term are lower-cased and compared by plain substring
// containment: no tokenization, accent folding or word boundaries, so "nut"
// matches "coconut". Matches come back in list order, then term order, with
// one entry per (list, term) hit and no deduplication across lists.
//
// Empty text or no lists yields an empty, non-nil slice. Blank terms never
// match, even though a whitespace-only term is a substring of most ingredient
// text; product owners wanting different behavior should change it here,
// alongside the substring rule above. The inputs are only read, so shared
// lists may be passed from concurrent requests.
func FindMatches(productIngredients string, watchLists []domain.WatchList) []domain.Match {
	matches := make([]domain.Match, 0)
	if productIngredients == "" || len(watchLists) == 0 {
		return matches
	}

	haystack := strings.ToLower(productIngredients)

	for _, list := range watchLists {
		for _, term := range list.Terms {
			if strings.TrimSpace(term.Name) == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(term.Name)) {
				matches = append(matches, domain.Match{
					Term: term.Name,
					List: list.Name,
				})
			}
		}
	}

	return matches
}
