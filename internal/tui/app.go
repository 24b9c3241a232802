// Package tui is the terminal surface for managing bookmarks and watching
// the web view's navigation state.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/yuedu/internal/model"
	"github.com/nikbrunner/yuedu/internal/search"
	"github.com/nikbrunner/yuedu/internal/session"
	"github.com/nikbrunner/yuedu/internal/tui/layout"
)

// Shell is what the UI drives. *session.Session implements it.
type Shell interface {
	Bookmarks() []model.Bookmark
	SelectedID() string
	NeedsSetup() bool
	CompleteSetup(ctx context.Context, name, rawURL string) (model.Bookmark, error)
	SelectBookmark(ctx context.Context, id string) error
	AddBookmark(name, rawURL string) (model.Bookmark, error)
	UpdateBookmark(id, name, rawURL string) error
	RemoveBookmark(id string) error
	Reload(ctx context.Context) error
}

var _ Shell = (*session.Session)(nil)

// NavigationMsg carries a session update into the bubbletea loop. Send it
// with Program.Send from a session subscriber.
type NavigationMsg session.Update

type setupDoneMsg struct {
	bookmark model.Bookmark
	err      error
}

type selectDoneMsg struct {
	name string
	err  error
}

type reloadDoneMsg struct {
	err error
}

// App is the main bubbletea model.
type App struct {
	ctx             context.Context
	shell           Shell
	keys            KeyMap
	styles          Styles
	layoutConfig    layout.LayoutConfig
	copyToClipboard func(string) error

	mode   Mode
	items  []Item
	cursor int

	// For gg command
	lastKeyWasG bool

	modal    ModalState
	filter   FilterState
	nav      NavState
	progress progress.Model

	messageText string
	messageType MessageType

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context      context.Context // optional, used for web view commands
	Shell        Shell
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Clipboard    func(string) error   // optional, system clipboard if nil
}

// NewApp creates a new App. If the shell needs setup the app opens on the
// setup form.
func NewApp(params AppParams) App {
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	app := App{
		ctx:             ctx,
		shell:           params.Shell,
		keys:            keys,
		styles:          styles,
		layoutConfig:    layoutCfg,
		copyToClipboard: copyFn,
		mode:            ModeNormal,
		modal:           NewModalState(layoutCfg),
		filter:          NewFilterState(layoutCfg),
		progress: progress.New(
			progress.WithSolidFill(progressFill),
			progress.WithoutPercentage(),
		),
		width:  80,
		height: 24,
	}
	app.progress.Width = layout.CalculateProgressWidth(
		layout.CalculatePaneWidth(app.width, layoutCfg.Pane), layoutCfg.Status)

	if app.shell.NeedsSetup() {
		app.openForm(ModeSetup)
	}

	app.refreshItems()
	return app
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	a.progress.Width = layout.CalculateProgressWidth(
		layout.CalculatePaneWidth(width, a.layoutConfig.Pane), a.layoutConfig.Status)
	return a
}

// Mode returns the current mode.
func (a App) Mode() Mode {
	return a.mode
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the current list of items.
func (a App) Items() []Item {
	return a.items
}

// Message returns the text of the message line.
func (a App) Message() string {
	return a.messageText
}

// refreshItems rebuilds the list from the shell, applying the filter.
func (a *App) refreshItems() {
	bookmarks := a.shell.Bookmarks()
	inUse := a.shell.SelectedID()

	a.items = nil
	for _, r := range search.FuzzyBookmarks(bookmarks, a.filter.Query) {
		a.items = append(a.items, Item{
			Bookmark:       r.Bookmark,
			InUse:          r.Bookmark.ID == inUse,
			MatchedIndexes: titleMatches(r),
		})
	}

	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// titleMatches keeps the match positions that fall inside the display name.
func titleMatches(r search.SearchResult) []int {
	limit := len(r.Bookmark.DisplayName())
	var out []int
	for _, idx := range r.MatchedIndexes {
		if idx < limit {
			out = append(out, idx)
		}
	}
	return out
}

func (a App) currentItem() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageText = ""
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.mode.isForm() {
		return a.modal.URLInput.Focus()
	}
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.WithDimensions(msg.Width, msg.Height), nil

	case NavigationMsg:
		a.nav.State = msg.State
		a.nav.ThemeColor = msg.ThemeColor
		return a, nil

	case setupDoneMsg:
		if errors.Is(msg.err, session.ErrSetupNotRequired) {
			a.mode = ModeNormal
			a.modal.ResetInputs()
			a.refreshItems()
			a.setMessage(MessageInfo, "Setup already done")
			return a, nil
		}
		if msg.err != nil && msg.bookmark.ID == "" {
			a.setMessage(MessageError, msg.err.Error())
			return a, nil
		}
		// The bookmark is stored, so setup is over even if loading failed.
		a.mode = ModeNormal
		a.modal.ResetInputs()
		a.refreshItems()
		if msg.err != nil {
			a.setMessage(MessageError, "Load failed: "+msg.err.Error()+" (enter to retry)")
		} else {
			a.setMessage(MessageSuccess, "Loading "+msg.bookmark.DisplayName())
		}
		return a, nil

	case selectDoneMsg:
		a.refreshItems()
		if msg.err != nil {
			a.setMessage(MessageError, msg.err.Error())
		} else {
			a.setMessage(MessageSuccess, "Loading "+msg.name)
		}
		return a, nil

	case reloadDoneMsg:
		if msg.err != nil {
			a.setMessage(MessageError, "Reload failed: "+msg.err.Error())
		}
		return a, nil

	case tea.KeyMsg:
		// Setup cannot be dismissed; ctrl+c is the only way out.
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

		switch a.mode {
		case ModeSetup, ModeAddBookmark, ModeEditBookmark:
			return a.updateForm(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeHelp:
			switch msg.String() {
			case "?", "q", "esc":
				a.mode = ModeNormal
			}
			return a, nil
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.items) > 0 && a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Select):
		item, ok := a.currentItem()
		if !ok {
			return a, nil
		}
		return a, a.selectCmd(item.Bookmark)

	case key.Matches(msg, a.keys.Add):
		return a, a.openForm(ModeAddBookmark)

	case key.Matches(msg, a.keys.Edit):
		item, ok := a.currentItem()
		if !ok {
			return a, nil
		}
		if item.InUse {
			a.setMessage(MessageWarning, "In use: select another bookmark before editing this one")
			return a, nil
		}
		cmd := a.openForm(ModeEditBookmark)
		a.modal.EditItemID = item.ID()
		a.modal.URLInput.SetValue(item.Bookmark.URL)
		a.modal.NameInput.SetValue(item.Bookmark.Name)
		return a, cmd

	case key.Matches(msg, a.keys.Delete):
		item, ok := a.currentItem()
		if !ok {
			return a, nil
		}
		if item.InUse {
			a.setMessage(MessageWarning, "In use: select another bookmark before deleting this one")
			return a, nil
		}
		a.modal.EditItemID = item.ID()
		a.mode = ModeConfirmDelete

	case key.Matches(msg, a.keys.Reload):
		return a, a.reloadCmd()

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.filter.Input.SetValue(a.filter.Query)
		return a, a.filter.Input.Focus()

	case key.Matches(msg, a.keys.YankURL):
		item, ok := a.currentItem()
		if !ok {
			return a, nil
		}
		if err := a.copyToClipboard(item.Bookmark.URL); err != nil {
			a.setMessage(MessageError, "Copy failed: "+err.Error())
		} else {
			a.setMessage(MessageSuccess, "Copied "+item.Bookmark.URL)
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// openForm switches to a form mode with empty inputs and the URL focused.
func (a *App) openForm(mode Mode) tea.Cmd {
	a.modal.ResetInputs()
	a.mode = mode
	return a.modal.URLInput.Focus()
}

func (a *App) focusField(field int) tea.Cmd {
	a.modal.Focus = field
	if field == fieldURL {
		a.modal.NameInput.Blur()
		return a.modal.URLInput.Focus()
	}
	a.modal.URLInput.Blur()
	return a.modal.NameInput.Focus()
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if a.mode == ModeSetup {
			a.setMessage(MessageWarning, "Add a first bookmark to continue")
			return a, nil
		}
		a.mode = ModeNormal
		a.modal.ResetInputs()
		return a, nil

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyDown, tea.KeyUp:
		return a, a.focusField((a.modal.Focus + 1) % fieldCount)

	case tea.KeyEnter:
		return a.submitForm()
	}

	var cmd tea.Cmd
	if a.modal.Focus == fieldURL {
		a.modal.URLInput, cmd = a.modal.URLInput.Update(msg)
	} else {
		a.modal.NameInput, cmd = a.modal.NameInput.Update(msg)
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	rawURL := strings.TrimSpace(a.modal.URLInput.Value())
	name := strings.TrimSpace(a.modal.NameInput.Value())
	if rawURL == "" {
		a.setMessage(MessageError, "URL is required")
		return a, a.focusField(fieldURL)
	}

	switch a.mode {
	case ModeSetup:
		shell, ctx := a.shell, a.ctx
		return a, func() tea.Msg {
			b, err := shell.CompleteSetup(ctx, name, rawURL)
			return setupDoneMsg{bookmark: b, err: err}
		}

	case ModeAddBookmark:
		b, err := a.shell.AddBookmark(name, rawURL)
		if err != nil {
			a.setMessage(MessageError, err.Error())
			return a, nil
		}
		a.setMessage(MessageSuccess, "Added "+b.DisplayName())

	case ModeEditBookmark:
		if err := a.shell.UpdateBookmark(a.modal.EditItemID, name, rawURL); err != nil {
			a.setMessage(MessageError, shellErrorText(err))
			a.mode = ModeNormal
			a.modal.ResetInputs()
			return a, nil
		}
		a.setMessage(MessageSuccess, "Saved "+model.NormalizeURL(rawURL))
	}

	a.mode = ModeNormal
	a.modal.ResetInputs()
	a.refreshItems()
	return a, nil
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		id := a.modal.EditItemID
		a.mode = ModeNormal
		a.modal.ResetInputs()
		if err := a.shell.RemoveBookmark(id); err != nil {
			a.setMessage(MessageError, shellErrorText(err))
			return a, nil
		}
		a.refreshItems()
		a.setMessage(MessageSuccess, "Deleted")
	case "esc", "n", "q":
		a.mode = ModeNormal
		a.modal.ResetInputs()
	}
	return a, nil
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.filter.Reset()
		a.mode = ModeNormal
		a.refreshItems()
		return a, nil
	case tea.KeyEnter:
		a.filter.Input.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	a.filter.Query = a.filter.Input.Value()
	a.cursor = 0
	a.refreshItems()
	return a, cmd
}

func (a App) selectCmd(b model.Bookmark) tea.Cmd {
	shell, ctx := a.shell, a.ctx
	return func() tea.Msg {
		return selectDoneMsg{name: b.DisplayName(), err: shell.SelectBookmark(ctx, b.ID)}
	}
}

func (a App) reloadCmd() tea.Cmd {
	shell, ctx := a.shell, a.ctx
	return func() tea.Msg {
		return reloadDoneMsg{err: shell.Reload(ctx)}
	}
}

func shellErrorText(err error) string {
	switch {
	case errors.Is(err, session.ErrBookmarkInUse):
		return "In use: select another bookmark first"
	case errors.Is(err, session.ErrUnknownBookmark):
		return "Bookmark no longer exists"
	default:
		return err.Error()
	}
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
