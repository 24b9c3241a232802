package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/yuedu/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkSource implements fuzzy.Source over "name url".
type bookmarkSource []model.Bookmark

func (bs bookmarkSource) String(i int) string {
	return matchText(bs[i])
}

func (bs bookmarkSource) Len() int {
	return len(bs)
}

func matchText(b model.Bookmark) string {
	if b.Name == "" {
		return b.URL
	}
	return b.Name + " " + b.URL
}

// FuzzyBookmarks matches query against each bookmark's name and URL.
// Results are sorted by score, best first. An empty query returns every
// bookmark in its original order.
func FuzzyBookmarks(items []model.Bookmark, query string) []SearchResult {
	if query == "" {
		results := make([]SearchResult, len(items))
		for i, b := range items {
			results[i] = SearchResult{Bookmark: b}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, bookmarkSource(items))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Bookmark:       items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
