package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/yuedu/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/yuedu-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("yuedu-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML writes items as Netscape bookmark HTML. The bookmark in use
// comes first, so importing the file into an empty store selects it again.
func ExportHTML(items []model.Bookmark, selectedID string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, item := range items {
		if item.ID == selectedID {
			writeItem(&b, item)
		}
	}
	for _, item := range items {
		if item.ID != selectedID {
			writeItem(&b, item)
		}
	}

	b.WriteString("</DL><p>\n")
	return b.String()
}

func writeItem(b *strings.Builder, item model.Bookmark) {
	fmt.Fprintf(b,
		"    <DT><A HREF=\"%s\">%s</A>\n",
		html.EscapeString(item.URL),
		html.EscapeString(item.DisplayName()),
	)
}
