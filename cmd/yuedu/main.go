package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/yuedu/internal/audio"
	"github.com/nikbrunner/yuedu/internal/exporter"
	"github.com/nikbrunner/yuedu/internal/importer"
	"github.com/nikbrunner/yuedu/internal/logging"
	"github.com/nikbrunner/yuedu/internal/model"
	"github.com/nikbrunner/yuedu/internal/picker"
	"github.com/nikbrunner/yuedu/internal/search"
	"github.com/nikbrunner/yuedu/internal/session"
	"github.com/nikbrunner/yuedu/internal/storage"
	"github.com/nikbrunner/yuedu/internal/store"
	"github.com/nikbrunner/yuedu/internal/tui"
	"github.com/nikbrunner/yuedu/internal/webview"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "--ephemeral":
			runShell(true)
			return
		case "open":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: yuedu open <query>\n")
				os.Exit(1)
			}
			runOpen(strings.Join(os.Args[2:], " "))
			return
		case "list":
			runList()
			return
		case "add":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: yuedu add <url> [name]\n")
				os.Exit(1)
			}
			runAdd(os.Args[2], strings.Join(os.Args[3:], " "))
			return
		case "import":
			if len(os.Args) < 3 {
				fmt.Fprintf(os.Stderr, "Usage: yuedu import <file.html>\n")
				os.Exit(1)
			}
			runImport(os.Args[2])
			return
		case "export":
			var outputPath string
			if len(os.Args) >= 3 {
				outputPath = os.Args[2]
			}
			runExport(outputPath)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	// No args - open the shell
	runShell(false)
}

func printHelp() {
	help := `yuedu - a single-site reading shell

Usage:
  yuedu                   Open the browser window and management TUI
  yuedu --ephemeral       Same, with an in-memory store
  yuedu open <query>      Fuzzy search → make the match the bookmark in use
  yuedu list              Print bookmarks (● marks the one in use)
  yuedu add <url> [name]  Add a bookmark
  yuedu import <file>     Import bookmarks from HTML
  yuedu export [path]     Export bookmarks to HTML
  yuedu help              Show this help

TUI Keybindings:
  j/k         Move down/up
  gg/G        Jump to top/bottom
  l/Enter     Use bookmark and load it
  r           Reload page
  /           Filter
  Y           Copy URL to clipboard
  a/e/d       Add/edit/delete
  ?           Show help overlay
  q           Quit

Configuration:
  ~/.config/yuedu/config.json
  YUEDU_* environment variables override the file (e.g. YUEDU_CHROME_PATH)
  YUEDU_LOG_DEV=true writes human-readable logs
`
	fmt.Print(help)
}

// env is the configuration, logger and store shared by every command.
type env struct {
	cfg     *storage.Config
	log     *zap.Logger
	backend storage.Storage
	store   *store.Store

	closeOnce sync.Once
}

// close releases the backend and flushes the logger. It runs once; the
// explicit calls before os.Exit and the deferred ones share it.
func (e *env) close() {
	e.closeOnce.Do(func() {
		if err := e.backend.Close(); err != nil {
			e.log.Warn("close storage", zap.Error(err))
		}
		_ = e.log.Sync()
	})
}

// openEnv loads config, builds the logger and opens the store. Any failure
// is fatal.
func openEnv(ephemeral bool) *env {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting config path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := storage.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if ephemeral {
		cfg.Backend = storage.BackendMemory
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
		OutputPath:  cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	backend, err := storage.OpenStorage(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(store.Params{Storage: backend, Logger: log})
	if err != nil {
		_ = backend.Close()
		fmt.Fprintf(os.Stderr, "Error loading bookmarks: %v\n", err)
		os.Exit(1)
	}

	return &env{cfg: cfg, log: log, backend: backend, store: st}
}

// runShell launches the browser and runs the management TUI next to it.
func runShell(ephemeral bool) {
	e := openEnv(ephemeral)
	err := shell(e)
	e.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running yuedu: %v\n", err)
		os.Exit(1)
	}
}

func shell(e *env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chrome, err := webview.Launch(ctx, webview.Options{
		ExecPath:    e.cfg.ChromePath,
		UserDataDir: filepath.Join(e.cfg.DataDir, "profile"),
		Headless:    e.cfg.Headless,
		Width:       e.cfg.WindowWidth,
		Height:      e.cfg.WindowHeight,
		Logger:      e.log.Named("webview"),
	})
	if err != nil {
		return err
	}
	defer chrome.Close()

	var keepAlive audio.Backend
	if e.cfg.BackgroundAudio {
		keepAlive = chrome.KeepAlive()
	}

	sess := session.New(session.Params{
		Store:  e.store,
		View:   chrome,
		Audio:  audio.NewManager(audio.Params{Backend: keepAlive, Logger: e.log}),
		Logger: e.log,
	})
	defer sess.Close(context.Background())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.Run(gctx)
	})

	if _, err := sess.Start(gctx); err != nil {
		// The page can still be chosen from the TUI.
		e.log.Error("initial load failed", zap.Error(err))
	}

	app := tui.NewApp(tui.AppParams{Context: gctx, Shell: sess})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(gctx))

	unsubscribe := sess.Subscribe(func(u session.Update) {
		program.Send(tui.NavigationMsg(u))
	})
	defer unsubscribe()

	// Closing the browser window ends the session.
	g.Go(func() error {
		select {
		case <-chrome.Done():
			e.log.Info("browser closed")
			program.Quit()
		case <-gctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		defer stop()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// runOpen fuzzy-matches query and makes the chosen bookmark the one in use.
// The next shell run loads it.
func runOpen(query string) {
	e := openEnv(false)
	defer e.close()

	results := search.FuzzyBookmarks(e.store.Items(), query)
	if len(results) == 0 {
		fmt.Printf("No bookmarks found for '%s'\n", query)
		return
	}

	var chosen model.Bookmark
	if len(results) == 1 {
		chosen = results[0].Bookmark
	} else {
		p := picker.New(results, query, e.store.SelectedID())
		finalModel, err := tea.NewProgram(p).Run()
		if err != nil {
			e.close()
			fmt.Fprintf(os.Stderr, "Error running picker: %v\n", err)
			os.Exit(1)
		}

		var ok bool
		chosen, ok = finalModel.(picker.Picker).SelectedBookmark()
		if !ok {
			return
		}
	}

	if err := e.store.Select(chosen.ID); err != nil {
		e.close()
		fmt.Fprintf(os.Stderr, "Error saving selection: %v\n", err)
		os.Exit(1)
	}
	if u, err := url.Parse(chosen.URL); err == nil {
		if err := e.store.SetLastVisited(u); err != nil {
			e.log.Warn("write last visited", zap.Error(err))
		}
	}

	fmt.Printf("In use: %s\n", chosen.DisplayName())
}

// runList prints every bookmark.
func runList() {
	e := openEnv(false)
	defer e.close()

	items := e.store.Items()
	if len(items) == 0 {
		fmt.Println("No bookmarks. Run 'yuedu' or 'yuedu add <url>' to add one.")
		return
	}

	selected := e.store.SelectedID()
	for _, b := range items {
		marker := " "
		if b.ID == selected {
			marker = "●"
		}
		if b.Name == "" {
			fmt.Printf("%s %s\n", marker, b.URL)
		} else {
			fmt.Printf("%s %s  %s\n", marker, b.Name, b.URL)
		}
	}
}

// runAdd handles the add subcommand.
func runAdd(rawURL, name string) {
	e := openEnv(false)
	defer e.close()

	b, err := e.store.Add(name, rawURL)
	if err != nil {
		e.close()
		fmt.Fprintf(os.Stderr, "Error adding bookmark: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Added %s", b.URL)
	if b.ID == e.store.SelectedID() {
		fmt.Print(" (in use)")
	}
	fmt.Println()
}

// runImport handles the import subcommand.
func runImport(filePath string) {
	e := openEnv(false)
	defer e.close()

	file, err := os.Open(filePath)
	if err != nil {
		e.close()
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	entries, err := importer.ParseHTMLBookmarks(file)
	if err != nil {
		e.close()
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	var added, skipped int
	for _, entry := range entries {
		if e.store.HasURL(entry.URL) {
			skipped++
			continue
		}
		if _, err := e.store.Add(entry.Name, entry.URL); err != nil {
			e.close()
			fmt.Fprintf(os.Stderr, "Error saving bookmarks: %v\n", err)
			os.Exit(1)
		}
		added++
	}

	fmt.Printf("Imported %d bookmarks", added)
	if skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", skipped)
	}
	fmt.Println()
}

// runExport handles the export subcommand.
func runExport(outputPath string) {
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting default export path: %v\n", err)
			os.Exit(1)
		}
	}

	e := openEnv(false)
	defer e.close()

	items := e.store.Items()
	html := exporter.ExportHTML(items, e.store.SelectedID())

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		e.close()
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d bookmarks to %s\n", len(items), outputPath)
}
