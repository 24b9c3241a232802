package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/yuedu/internal/tui/layout"
)

// renderView creates the complete view: header, bookmark list, navigation
// status and help bar.
func (a App) renderView() string {
	switch {
	case a.mode == ModeHelp:
		return a.renderHelpOverlay()
	case a.mode != ModeNormal && a.mode != ModeFilter:
		return a.renderModal()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeader(),
			a.renderListPane(paneWidth, paneHeight),
			a.renderStatusPane(paneWidth),
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders the app name and bookmark count.
func (a App) renderHeader() string {
	count := len(a.shell.Bookmarks())
	noun := "bookmarks"
	if count == 1 {
		noun = "bookmark"
	}
	return a.styles.Title.Render("yuedu") + " " +
		a.styles.Empty.Render(strconv.Itoa(count)+" "+noun)
}

// renderListPane renders the bookmark list with the filter line on top.
func (a App) renderListPane(width, height int) string {
	var content strings.Builder

	visibleHeight := height
	if a.mode == ModeFilter || a.filter.Query != "" {
		visibleHeight--
	}
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	if a.mode == ModeFilter {
		content.WriteString("/" + a.filter.Input.View() + "\n")
	} else if a.filter.Query != "" {
		content.WriteString(a.styles.Badge.Render("/"+a.filter.Query) + "\n")
	}

	if len(a.items) == 0 {
		if a.filter.Query != "" {
			content.WriteString(a.styles.Empty.Render("(no matches)"))
		} else {
			content.WriteString(a.styles.Empty.Render("(no bookmarks)"))
		}
	} else {
		offset := layout.CalculateViewportOffset(a.cursor, len(a.items), visibleHeight)
		for i, item := range a.items {
			if i < offset {
				continue
			}
			if i >= offset+visibleHeight {
				break
			}
			content.WriteString(a.renderItem(item, i == a.cursor, itemWidth) + "\n")
		}
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderItem renders one bookmark row. The in-use bookmark carries a "●".
func (a App) renderItem(item Item, isCursor bool, maxWidth int) string {
	prefix := "  "
	if item.InUse {
		prefix = "● "
	}

	line, _ := layout.TruncateWithPrefixSuffix(item.Title(), maxWidth, prefix, "", a.layoutConfig.Text)

	if isCursor {
		// Pad to fill width for highlight
		return a.styles.ItemSelected.Render(layout.PadRight(line, maxWidth))
	}

	if len(item.MatchedIndexes) > 0 {
		line = layout.TruncateANSIAware(prefix+a.highlightMatches(item.Title(), item.MatchedIndexes), maxWidth, a.layoutConfig.Text)
	}
	if item.InUse {
		return a.styles.InUse.PaddingLeft(1).Render(line)
	}
	return a.styles.Item.Render(line)
}

// highlightMatches styles the runes that start at the matched byte offsets.
func (a App) highlightMatches(text string, matches []int) string {
	matched := make(map[int]bool, len(matches))
	for _, idx := range matches {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matched[i] {
			b.WriteString(a.styles.Match.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderStatusPane renders the web view state: load progress, current URL,
// the last error and the page theme color.
func (a App) renderStatusPane(width int) string {
	inner := layout.CalculateItemWidth(width, a.layoutConfig.Pane)
	nav := a.nav

	var lines []string

	// Line 1: load state
	if nav.IsLoading {
		lines = append(lines, a.progress.ViewAs(nav.Progress)+" "+
			a.styles.Badge.Render(fmt.Sprintf("%3.0f%%", nav.Progress*100)))
	} else if nav.CurrentURL != "" {
		lines = append(lines, a.styles.Help.Render("loaded"))
	} else {
		lines = append(lines, a.styles.Empty.Render("idle"))
	}

	// Line 2: URL and reader badge
	urlLine := a.styles.Empty.Render("(nothing loaded)")
	if nav.CurrentURL != "" {
		badge := ""
		if nav.IsReaderMode {
			badge = " " + a.styles.Badge.Render("[reader]")
		}
		url, _ := layout.TruncateText(nav.CurrentURL, inner-layout.VisibleLength(badge), a.layoutConfig.Text)
		urlLine = a.styles.URL.Render(url) + badge
	}
	lines = append(lines, urlLine)

	// Line 3: history and last error
	lines = append(lines, a.renderHistoryLine(inner))

	// Line 4: theme color swatch
	lines = append(lines, a.renderThemeSwatch())

	return a.styles.Pane.
		Width(width).
		Render(strings.Join(lines, "\n"))
}

func (a App) renderHistoryLine(maxWidth int) string {
	if a.nav.LastError != nil {
		text, _ := layout.TruncateText("error: "+a.nav.LastError.Error(), maxWidth, a.layoutConfig.Text)
		return a.styles.Error.Render(text)
	}

	back, forward := "-", "-"
	if a.nav.CanGoBack {
		back = "<"
	}
	if a.nav.CanGoForward {
		forward = ">"
	}
	return a.styles.Help.Render("history " + back + " " + forward)
}

func (a App) renderThemeSwatch() string {
	if a.nav.ThemeColor == "" {
		return a.styles.Empty.Render("theme -")
	}
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(a.nav.ThemeColor)).
		Render(strings.Repeat(" ", a.layoutConfig.Status.SwatchWidth))
	return a.styles.Help.Render("theme ") + swatch + " " + a.styles.Help.Render(a.nav.ThemeColor)
}

// renderHelpBar renders the message line and contextual hints.
func (a App) renderHelpBar() string {
	var lines []string

	// Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	if hints := a.renderHints(a.getContextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var color lipgloss.TerminalColor
	var prefix string

	switch a.messageType {
	case MessageError:
		color, prefix = colorError, "✗ "
	case MessageWarning:
		color, prefix = colorWarning, "⚠ "
	case MessageSuccess:
		color, prefix = colorSuccess, "✓ "
	default:
		color = colorAccent
	}

	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(prefix + a.messageText)
}

// renderModal renders the setup, add, edit and delete dialogs.
func (a App) renderModal() string {
	var title, content strings.Builder

	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	modalStyle := a.styles.Modal.Width(modalWidth)

	switch a.mode {
	case ModeSetup:
		title.WriteString("Welcome to yuedu\n\n")
		content.WriteString(a.styles.Help.Render("Add the site you want to read. It becomes the bookmark in use.") + "\n\n")
		a.writeFormFields(&content)

	case ModeAddBookmark:
		title.WriteString("Add Bookmark\n\n")
		a.writeFormFields(&content)

	case ModeEditBookmark:
		title.WriteString("Edit Bookmark\n\n")
		a.writeFormFields(&content)

	case ModeConfirmDelete:
		name := a.modal.EditItemID
		for _, item := range a.items {
			if item.ID() == a.modal.EditItemID {
				name = item.Title()
				break
			}
		}
		title.WriteString("Delete Bookmark?\n\n")
		content.WriteString(name + "\n\n")
		content.WriteString(a.renderHintsInline([]Hint{
			{Key: "Enter", Desc: "confirm"},
			{Key: "Esc", Desc: "cancel"},
		}))
	}

	modal := lipgloss.Place(
		a.width,
		a.height-3,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(a.styles.Title.Render(title.String())+content.String()),
	)

	// Place modal in center, then add help bar at bottom
	return lipgloss.JoinVertical(lipgloss.Left, modal, a.renderHelpBar())
}

func (a App) writeFormFields(content *strings.Builder) {
	content.WriteString("URL:\n")
	content.WriteString(a.modal.URLInput.View())
	content.WriteString("\n\n")
	content.WriteString("Name:\n")
	content.WriteString(a.modal.NameInput.View())
}

// renderHelpOverlay renders the full keybinding reference.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("/    filter\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("page") + "\n")
	left.WriteString("l    use & load\n")
	left.WriteString("r    reload\n")
	left.WriteString("Y    yank url\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    add bookmark\n")
	right.WriteString("e    edit\n")
	right.WriteString("d    delete\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [ctrl+c] quit"))

	colWidth := a.layoutConfig.Modal.HelpColumnWidth
	leftCol := lipgloss.NewStyle().Width(colWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(colWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
