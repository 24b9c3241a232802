package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/yuedu/internal/navigation"
	"github.com/nikbrunner/yuedu/internal/tui/layout"
)

// Mode is the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeSetup
	ModeAddBookmark
	ModeEditBookmark
	ModeConfirmDelete
	ModeHelp
)

// isForm reports whether the mode shows the name/URL form.
func (m Mode) isForm() bool {
	return m == ModeSetup || m == ModeAddBookmark || m == ModeEditBookmark
}

// MessageType selects the style of the message line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// Form fields, in tab order.
const (
	fieldURL = iota
	fieldName
	fieldCount
)

// ModalState holds state for the setup, add and edit forms.
type ModalState struct {
	URLInput   textinput.Model
	NameInput  textinput.Model
	Focus      int    // fieldURL or fieldName
	EditItemID string // bookmark being edited or deleted
}

// NewModalState creates a new ModalState with initialized inputs.
func NewModalState(cfg layout.LayoutConfig) ModalState {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://..."
	urlInput.CharLimit = cfg.Input.URLCharLimit
	urlInput.Width = cfg.Input.StandardWidth

	nameInput := textinput.New()
	nameInput.Placeholder = "Name (defaults to the URL)"
	nameInput.CharLimit = cfg.Input.NameCharLimit
	nameInput.Width = cfg.Input.StandardWidth

	return ModalState{
		URLInput:  urlInput,
		NameInput: nameInput,
	}
}

// ResetInputs clears the form for a new modal session.
func (m *ModalState) ResetInputs() {
	m.URLInput.Reset()
	m.NameInput.Reset()
	m.EditItemID = ""
	m.Focus = fieldURL
	m.URLInput.Blur()
	m.NameInput.Blur()
}

// FilterState holds the live list filter.
type FilterState struct {
	Input textinput.Model
	Query string // active query, kept after the input closes
}

// NewFilterState creates a FilterState with an initialized input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "Filter..."
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return FilterState{Input: input}
}

// Reset clears the filter.
func (f *FilterState) Reset() {
	f.Input.Reset()
	f.Input.Blur()
	f.Query = ""
}

// NavState mirrors the session's navigation updates.
type NavState struct {
	navigation.State
	ThemeColor string
}
