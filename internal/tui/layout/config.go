package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane   PaneConfig
	Modal  ModalConfig
	Input  InputConfig
	Text   TextConfig
	Status StatusConfig
}

// PaneConfig holds dimensions of the bookmark list pane.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for list content.
	// Accounts for: app padding (1) + header (1) + list borders (2) +
	// status pane (6) + help bar (2) = 12
	HeightReduction int

	// MinHeight is the minimum list height.
	MinHeight int

	// WidthOffset is subtracted from terminal width for the pane.
	// Accounts for app padding (4) and pane borders (2).
	WidthOffset int

	// MinWidth is the minimum pane width.
	MinWidth int

	// ContentPadding is subtracted from pane width for item rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpColumnWidth: width of each help overlay column.
	HelpColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	NameCharLimit   int
	URLCharLimit    int
	FilterCharLimit int

	StandardWidth int // name and URL inputs
	FilterWidth   int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// StatusConfig holds navigation status pane configuration.
type StatusConfig struct {
	// ProgressMaxWidth caps the progress bar width.
	ProgressMaxWidth int

	// SwatchWidth is the width of the theme color swatch.
	SwatchWidth int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 12,
			MinHeight:       3,
			WidthOffset:     6,
			MinWidth:        20,
			ContentPadding:  2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            40,
			MaxWidth:            80,
			HelpColumnWidth:     22,
		},
		Input: InputConfig{
			NameCharLimit:   100,
			URLCharLimit:    2000,
			FilterCharLimit: 50,
			StandardWidth:   40,
			FilterWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Status: StatusConfig{
			ProgressMaxWidth: 40,
			SwatchWidth:      2,
		},
	}
}
