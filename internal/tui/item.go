package tui

import "github.com/nikbrunner/yuedu/internal/model"

// Item is one row of the bookmark list.
type Item struct {
	Bookmark       model.Bookmark
	InUse          bool
	MatchedIndexes []int // positions in Bookmark.DisplayName() matched by the filter
}

// ID returns the bookmark id.
func (i Item) ID() string {
	return i.Bookmark.ID
}

// Title returns a display title for the item.
func (i Item) Title() string {
	return i.Bookmark.DisplayName()
}
