package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/yuedu/internal/model"
	"github.com/nikbrunner/yuedu/internal/search"
)

func twoResults() []search.SearchResult {
	return []search.SearchResult{
		{Bookmark: model.Bookmark{ID: "b1", Name: "GitHub", URL: "https://github.com"}},
		{Bookmark: model.Bookmark{ID: "b2", Name: "GitLab", URL: "https://gitlab.com"}},
	}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "git", "")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_Navigate(t *testing.T) {
	p := New(twoResults(), "git", "")

	p, _ = press(p, runes("j"))
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after j, got %d", p.cursor)
	}

	p, _ = press(p, runes("j"))
	if p.cursor != 1 {
		t.Errorf("expected cursor to stay at last item, got %d", p.cursor)
	}

	p, _ = press(p, runes("k"))
	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(twoResults(), "git", "")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_Select(t *testing.T) {
	p := New(twoResults(), "git", "")
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected quit command after selection")
	}

	got, ok := p.SelectedBookmark()
	if !ok {
		t.Fatal("expected a selection")
	}
	if got.ID != "b2" {
		t.Errorf("expected b2, got %s", got.ID)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEsc}, runes("q")} {
		p := New(twoResults(), "git", "")

		p, cmd := press(p, msg)
		if !p.Cancelled() {
			t.Errorf("%s: expected cancelled", msg)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command after cancel", msg)
		}
		if _, ok := p.SelectedBookmark(); ok {
			t.Errorf("%s: expected no selection when cancelled", msg)
		}
	}
}

func TestPicker_ViewMarksInUse(t *testing.T) {
	p := New(twoResults(), "git", "b2")

	view := p.View()
	if !strings.Contains(view, "GitLab (in use)") {
		t.Errorf("expected in-use marker on GitLab, got:\n%s", view)
	}
	if strings.Contains(view, "GitHub (in use)") {
		t.Error("only the in-use bookmark is marked")
	}
	if !strings.Contains(view, "2 results") {
		t.Error("expected result count in header")
	}
}
