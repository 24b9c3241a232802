package navigation

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ThemeColorScript returns the page's theme-color meta content, or the
// computed background color of the body when there is none.
const ThemeColorScript = `(() => {
  const meta = document.querySelector('meta[name="theme-color"]');
  if (meta && meta.content) { return meta.content; }
  if (!document.body) { return ""; }
  return window.getComputedStyle(document.body).backgroundColor || "";
})()`

// NormalizeThemeColor converts a CSS color to "#rrggbb". It returns "" for
// empty or fully transparent colors and the trimmed input for anything it
// cannot parse.
func NormalizeThemeColor(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "transparent") {
		return ""
	}

	c, alpha, ok := parseCSSColor(s)
	if !ok {
		return s
	}
	if alpha <= 0 {
		return ""
	}
	return c.Clamped().Hex()
}

func parseCSSColor(s string) (colorful.Color, float64, bool) {
	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "#") {
		switch len(lower) {
		case 4, 7:
			c, err := colorful.Hex(lower)
			return c, 1, err == nil
		case 9:
			c, err := colorful.Hex(lower[:7])
			if err != nil {
				return colorful.Color{}, 0, false
			}
			var a uint8
			if _, err := fmt.Sscanf(lower[7:], "%02x", &a); err != nil {
				return colorful.Color{}, 0, false
			}
			return c, float64(a) / 255, true
		}
		return colorful.Color{}, 0, false
	}

	var r, g, b, a float64
	a = 1
	switch {
	case strings.HasPrefix(lower, "rgba("):
		if n, _ := fmt.Sscanf(strings.ReplaceAll(lower, " ", ""), "rgba(%g,%g,%g,%g)", &r, &g, &b, &a); n != 4 {
			return colorful.Color{}, 0, false
		}
	case strings.HasPrefix(lower, "rgb("):
		if n, _ := fmt.Sscanf(strings.ReplaceAll(lower, " ", ""), "rgb(%g,%g,%g)", &r, &g, &b); n != 3 {
			return colorful.Color{}, 0, false
		}
	default:
		return colorful.Color{}, 0, false
	}
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}, a, true
}
