package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	App          lipgloss.Style
	Pane         lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	InUse        lipgloss.Style
	Match        lipgloss.Style // matched runes while filtering
	URL          lipgloss.Style
	Badge        lipgloss.Style // [reader], [loading]
	Error        lipgloss.Style
	Help         lipgloss.Style
	Empty        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "Enter", "j/k")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "confirm", "move")
	Modal        lipgloss.Style
}

// Palette colors shared by styles and the progress bar.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	colorSubtle  = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}
	colorError   = lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}

	// progressFill is a plain hex for bubbles/progress, which takes strings.
	progressFill = "#5F8787"
)

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorBorder),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent),

		Item: lipgloss.NewStyle().
			Foreground(colorPrimary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(colorAccent).
			Foreground(lipgloss.Color("#1A1A1A")),

		InUse: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Match: lipgloss.NewStyle().
			Foreground(colorAccent).
			Underline(true),

		URL: lipgloss.NewStyle().
			Foreground(colorSubtle),

		Badge: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorError),

		Help: lipgloss.NewStyle().
			Foreground(colorSubtle),

		Empty: lipgloss.NewStyle().
			Foreground(colorSubtle),

		HintKey: lipgloss.NewStyle().
			Foreground(colorAccent),

		HintDesc: lipgloss.NewStyle().
			Foreground(colorSubtle),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2),
	}
}
