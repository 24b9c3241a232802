package model

import (
	"strings"

	"github.com/google/uuid"
)

// Bookmark is a saved (name, URL) pair with a stable identity.
type Bookmark struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"` // always normalized, see NormalizeURL
}

// NewBookmarkParams holds parameters for creating a new Bookmark.
type NewBookmarkParams struct {
	Name string
	URL  string
}

// NewBookmark creates a Bookmark with a generated UUID and a normalized URL.
func NewBookmark(params NewBookmarkParams) Bookmark {
	return Bookmark{
		ID:   uuid.NewString(),
		Name: params.Name,
		URL:  NormalizeURL(params.URL),
	}
}

// DisplayName returns the name, or the URL when the name is blank.
func (b Bookmark) DisplayName() string {
	if strings.TrimSpace(b.Name) == "" {
		return b.URL
	}
	return b.Name
}
