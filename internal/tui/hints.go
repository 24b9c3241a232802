package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Edit   []Hint
	Action []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	if len(all) == 0 {
		return ""
	}

	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints for modals: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// getContextualHints returns the appropriate hints for the current mode.
func (a App) getContextualHints() HintSet {
	switch a.mode {
	case ModeNormal:
		return HintSet{
			Nav: []Hint{
				{Key: "j/k", Desc: "move"},
				{Key: "enter", Desc: "use"},
			},
			Action: []Hint{
				{Key: "r", Desc: "reload"},
				{Key: "/", Desc: "filter"},
				{Key: "Y", Desc: "yank"},
			},
			Edit: []Hint{
				{Key: "a", Desc: "add"},
				{Key: "e", Desc: "edit"},
				{Key: "d", Desc: "del"},
			},
			System: []Hint{
				{Key: "?", Desc: "help"},
				{Key: "q", Desc: "quit"},
			},
		}
	case ModeFilter:
		return HintSet{
			Action: []Hint{{Key: "enter", Desc: "keep"}},
			System: []Hint{{Key: "esc", Desc: "clear"}},
		}
	case ModeSetup:
		return HintSet{
			Nav:    []Hint{{Key: "tab", Desc: "next field"}},
			Action: []Hint{{Key: "enter", Desc: "save & load"}},
			System: []Hint{{Key: "ctrl+c", Desc: "quit"}},
		}
	case ModeAddBookmark, ModeEditBookmark:
		return HintSet{
			Nav:    []Hint{{Key: "tab", Desc: "next field"}},
			Action: []Hint{{Key: "enter", Desc: "save"}},
			System: []Hint{{Key: "esc", Desc: "cancel"}},
		}
	case ModeConfirmDelete:
		return HintSet{
			Action: []Hint{{Key: "enter/y", Desc: "delete"}},
			System: []Hint{{Key: "esc/n", Desc: "cancel"}},
		}
	case ModeHelp:
		return HintSet{
			System: []Hint{{Key: "?/q/esc", Desc: "close"}},
		}
	default:
		return HintSet{}
	}
}
