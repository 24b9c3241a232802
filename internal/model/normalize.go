package model

import "strings"

// defaultScheme is prepended to URLs typed without one.
const defaultScheme = "https://"

// opaqueSchemes are schemes that are not followed by "//".
var opaqueSchemes = []string{"about:", "data:", "file:", "javascript:", "mailto:"}

// NormalizeURL trims whitespace, adds https:// when no scheme is present and
// strips trailing slashes after the authority. Applying it twice yields the
// same result as applying it once.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	if !hasScheme(s) {
		s = defaultScheme + s
	}

	// Never strip into the "scheme://" prefix itself.
	floor := 0
	if i := strings.Index(s, "://"); i >= 0 {
		floor = i + len("://")
	}
	for len(s)-1 > floor && strings.HasSuffix(s, "/") {
		s = s[:len(s)-1]
	}

	return s
}

// hasScheme reports whether s starts with "scheme://" or a known opaque scheme.
func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range opaqueSchemes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}

	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	return validScheme(s[:i])
}

// validScheme checks the RFC 3986 scheme grammar: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func validScheme(scheme string) bool {
	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
