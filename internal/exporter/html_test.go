package exporter

import (
	"strings"
	"testing"

	"github.com/nikbrunner/yuedu/internal/importer"
	"github.com/nikbrunner/yuedu/internal/model"
)

func TestExportHTML_Empty(t *testing.T) {
	out := ExportHTML(nil, "")

	for _, want := range []string{
		"<!DOCTYPE NETSCAPE-Bookmark-file-1>",
		"<TITLE>Bookmarks</TITLE>",
		"<H1>Bookmarks</H1>",
		"<DL><p>",
		"</DL><p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestExportHTML_SingleBookmark(t *testing.T) {
	out := ExportHTML([]model.Bookmark{{ID: "b1", Name: "GitHub", URL: "https://github.com"}}, "")

	if !strings.Contains(out, `<DT><A HREF="https://github.com">GitHub</A>`) {
		t.Errorf("expected bookmark line, got:\n%s", out)
	}
}

func TestExportHTML_UnnamedUsesURL(t *testing.T) {
	out := ExportHTML([]model.Bookmark{{ID: "b1", URL: "https://go.dev"}}, "")

	if !strings.Contains(out, `<A HREF="https://go.dev">https://go.dev</A>`) {
		t.Errorf("expected URL as name, got:\n%s", out)
	}
}

func TestExportHTML_EscapesSpecialCharacters(t *testing.T) {
	out := ExportHTML([]model.Bookmark{{ID: "b1", Name: `Tom & "Jerry"`, URL: "https://a.com/?x=1&y=<2>"}}, "")

	if !strings.Contains(out, "Tom &amp; &#34;Jerry&#34;") {
		t.Errorf("expected escaped name, got:\n%s", out)
	}
	if !strings.Contains(out, "https://a.com/?x=1&amp;y=&lt;2&gt;") {
		t.Errorf("expected escaped URL, got:\n%s", out)
	}
}

func TestExportHTML_SelectedFirst(t *testing.T) {
	items := []model.Bookmark{
		{ID: "b1", Name: "One", URL: "https://one.example"},
		{ID: "b2", Name: "Two", URL: "https://two.example"},
		{ID: "b3", Name: "Three", URL: "https://three.example"},
	}

	out := ExportHTML(items, "b2")

	two := strings.Index(out, "Two")
	one := strings.Index(out, "One")
	three := strings.Index(out, "Three")
	if !(two < one && one < three) {
		t.Errorf("expected Two, One, Three order, got:\n%s", out)
	}
}

func TestExportHTML_RoundTrip(t *testing.T) {
	items := []model.Bookmark{
		{ID: "b1", Name: "One & Only", URL: "https://one.example/a?b=1&c=2"},
		{ID: "b2", Name: "Two", URL: "https://two.example"},
	}

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(ExportHTML(items, "b1")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != len(items) {
		t.Fatalf("expected %d entries, got %d", len(items), len(entries))
	}
	for i, e := range entries {
		if e.Name != items[i].Name || e.URL != items[i].URL {
			t.Errorf("entry %d: got %+v, want name %q url %q", i, e, items[i].Name, items[i].URL)
		}
	}
}
