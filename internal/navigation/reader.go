package navigation

import "strings"

const readerMarker = "/reader?bookurl="

// IsReaderMode reports whether rawURL points at the reader page.
// The match is case-insensitive over the whole URL.
func IsReaderMode(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rawURL), readerMarker)
}
