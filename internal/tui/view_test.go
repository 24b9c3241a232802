package tui_test

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/yuedu/internal/navigation"
	"github.com/nikbrunner/yuedu/internal/tui"
	"github.com/nikbrunner/yuedu/internal/tui/layout"
)

func render(app tui.App) string {
	return layout.StripANSI(app.View())
}

func TestView_List(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()}).WithDimensions(100, 30)
	view := render(app)

	assert.Check(t, is.Contains(view, "yuedu"))
	assert.Check(t, is.Contains(view, "3 bookmarks"))
	assert.Check(t, is.Contains(view, "● Go Blog"))
	assert.Check(t, is.Contains(view, "Hacker News"))
	assert.Check(t, is.Contains(view, "https://example.com"))
	assert.Check(t, is.Contains(view, "(nothing loaded)"))
	assert.Check(t, is.Contains(view, "j/k:move"))
}

func TestView_Empty(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: &fakeShell{}})
	view := render(app)
	assert.Check(t, is.Contains(view, "(no bookmarks)"))
	assert.Check(t, is.Contains(view, "0 bookmarks"))
}

func TestView_NoFilterMatches(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()})
	app, _ = press(app, "/zzzz")
	view := render(app)
	assert.Check(t, is.Contains(view, "(no matches)"))
}

func TestView_NavigationStatus(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()}).WithDimensions(100, 30)

	app, _ = send(app, tui.NavigationMsg{
		State: navigation.State{
			IsLoading:  true,
			Progress:   0.5,
			CurrentURL: "https://www.nytimes.com/",
		},
	})
	view := render(app)
	assert.Check(t, is.Contains(view, "50%"))
	assert.Check(t, is.Contains(view, "https://www.nytimes.com/"))

	app, _ = send(app, tui.NavigationMsg{
		State: navigation.State{
			Progress:     1,
			CanGoBack:    true,
			CurrentURL:   "https://www.nytimes.com/reader?bookUrl=x",
			IsReaderMode: true,
		},
		ThemeColor: "#102030",
	})
	view = render(app)
	assert.Check(t, is.Contains(view, "loaded"))
	assert.Check(t, is.Contains(view, "[reader]"))
	assert.Check(t, is.Contains(view, "history < -"))
	assert.Check(t, is.Contains(view, "#102030"))
}

func TestView_NavigationError(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()}).WithDimensions(100, 30)
	app, _ = send(app, tui.NavigationMsg{
		State: navigation.State{
			CurrentURL: "https://offline.example",
			LastError:  errors.New("net::ERR_INTERNET_DISCONNECTED"),
		},
	})
	view := render(app)
	assert.Check(t, is.Contains(view, "error: net::ERR_INTERNET_DISCONNECTED"))
}

func TestView_SetupModal(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: &fakeShell{needsSetup: true}})
	view := render(app)
	assert.Check(t, is.Contains(view, "Welcome to yuedu"))
	assert.Check(t, is.Contains(view, "URL:"))
	assert.Check(t, is.Contains(view, "Name:"))
	assert.Check(t, is.Contains(view, "save & load"))
}

func TestView_ConfirmDelete(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()})
	app, _ = press(app, "jd")
	view := render(app)
	assert.Check(t, is.Contains(view, "Delete Bookmark?"))
	assert.Check(t, is.Contains(view, "Hacker News"))
}

func TestView_HelpOverlay(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()})
	app, _ = press(app, "?")
	view := render(app)
	assert.Check(t, is.Contains(view, "use & load"))
	assert.Check(t, is.Contains(view, "add bookmark"))
}

func TestView_Message(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()})
	app, _ = press(app, "e")
	view := render(app)
	assert.Check(t, is.Contains(view, "⚠ In use"))
}

func TestView_WindowResize(t *testing.T) {
	app := tui.NewApp(tui.AppParams{Shell: newShell()})
	app, _ = send(app, tea.WindowSizeMsg{Width: 60, Height: 20})
	view := render(app)
	assert.Check(t, is.Contains(view, "Go Blog"))
}
