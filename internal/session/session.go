// Package session wires the bookmark store to the web view: it decides what
// to load at startup, gates first-run setup, and writes the last visited URL
// back as navigation progresses.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nikbrunner/yuedu/internal/audio"
	"github.com/nikbrunner/yuedu/internal/model"
	"github.com/nikbrunner/yuedu/internal/navigation"
	"github.com/nikbrunner/yuedu/internal/store"
)

var (
	ErrSetupNotRequired = errors.New("setup already completed")
	ErrSetupPending     = errors.New("setup not completed")
	ErrUnknownBookmark  = errors.New("unknown bookmark")
	ErrBookmarkInUse    = errors.New("bookmark is in use")
)

// Startup tells the UI what Start did.
type Startup struct {
	NeedsSetup bool
	URL        string
}

// Update is delivered to subscribers whenever navigation state or the theme
// color changes.
type Update struct {
	State             navigation.State
	ThemeColor        string
	ReaderModeChanged bool
}

// Session is the shell around one web view.
type Session struct {
	store *store.Store
	view  navigation.WebView
	obs   *navigation.Observer
	audio *audio.Manager
	log   *zap.Logger

	mu           sync.Mutex
	setupPending bool
	shownURL     string // CurrentURL of the last published state
	readerMode   bool
	themeColor   string

	subMu  sync.Mutex
	subs   map[int]func(Update)
	nextID int
}

// Params holds parameters for creating a Session.
type Params struct {
	Store  *store.Store
	View   navigation.WebView
	Audio  *audio.Manager // optional
	Logger *zap.Logger    // optional, no-op if nil
}

// New creates a Session. Run must be running for navigation updates to be
// processed.
func New(params Params) *Session {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	am := params.Audio
	if am == nil {
		am = audio.NewManager(audio.Params{Logger: log})
	}

	s := &Session{
		store: params.Store,
		view:  params.View,
		audio: am,
		log:   log.Named("session"),
		subs:  map[int]func(Update){},
	}
	s.obs = navigation.New(navigation.Params{
		View:         params.View,
		Logger:       log,
		OnState:      s.handleState,
		OnThemeColor: s.handleThemeColor,
	})
	return s
}

// Run processes navigation signals until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	return s.obs.Run(ctx)
}

// Start attaches to the web view and loads the initial page: the last
// visited URL, else the selected bookmark. With no selected bookmark nothing
// is loaded and setup is required.
func (s *Session) Start(ctx context.Context) (Startup, error) {
	s.obs.Attach()

	selected, ok := s.store.Selected()
	if !ok {
		s.mu.Lock()
		s.setupPending = true
		s.mu.Unlock()
		s.log.Info("no bookmark selected, setup required")
		return Startup{NeedsSetup: true}, nil
	}

	target := selected.URL
	if last := s.store.LastVisitedURL(); last != nil {
		target = last.String()
	}

	if err := s.view.Load(ctx, target); err != nil {
		return Startup{}, fmt.Errorf("load %s: %w", target, err)
	}
	s.audio.Start(ctx)

	s.log.Info("session started", zap.String("url", target))
	return Startup{URL: target}, nil
}

// NeedsSetup reports whether CompleteSetup must be called before anything
// else.
func (s *Session) NeedsSetup() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setupPending
}

// CompleteSetup adds the first bookmark and loads it. A blank name defaults
// to the normalized URL. Setup is complete once the bookmark is stored: if
// the load then fails, the bookmark is returned with the error and
// SelectBookmark retries it.
func (s *Session) CompleteSetup(ctx context.Context, name, rawURL string) (model.Bookmark, error) {
	if !s.NeedsSetup() {
		return model.Bookmark{}, ErrSetupNotRequired
	}
	if strings.TrimSpace(name) == "" {
		name = model.NormalizeURL(rawURL)
	}

	b, err := s.store.Add(name, rawURL)
	if err != nil {
		return model.Bookmark{}, err
	}

	s.mu.Lock()
	s.setupPending = false
	s.mu.Unlock()

	if s.store.SelectedID() != b.ID {
		if err := s.store.Select(b.ID); err != nil {
			return b, err
		}
	}

	if err := s.open(ctx, b); err != nil {
		return b, err
	}
	s.audio.Start(ctx)

	s.log.Info("setup completed", zap.String("id", b.ID), zap.String("url", b.URL))
	return b, nil
}

// SelectBookmark makes id the bookmark in use and loads it.
func (s *Session) SelectBookmark(ctx context.Context, id string) error {
	if s.NeedsSetup() {
		return ErrSetupPending
	}
	b, ok := s.store.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBookmark, id)
	}
	if err := s.store.Select(b.ID); err != nil {
		return err
	}
	if err := s.open(ctx, b); err != nil {
		return err
	}
	s.audio.Start(ctx)
	return nil
}

func (s *Session) open(ctx context.Context, b model.Bookmark) error {
	if err := s.view.Load(ctx, b.URL); err != nil {
		return fmt.Errorf("load %s: %w", b.URL, err)
	}
	s.writeLastVisited(b.URL)
	return nil
}

// AddBookmark adds a bookmark without changing what is loaded.
func (s *Session) AddBookmark(name, rawURL string) (model.Bookmark, error) {
	if s.NeedsSetup() {
		return model.Bookmark{}, ErrSetupPending
	}
	return s.store.Add(name, rawURL)
}

// UpdateBookmark edits a bookmark other than the one in use.
func (s *Session) UpdateBookmark(id, name, rawURL string) error {
	if id == s.store.SelectedID() {
		return ErrBookmarkInUse
	}
	ok, err := s.store.Update(id, name, rawURL)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBookmark, id)
	}
	return nil
}

// RemoveBookmark deletes a bookmark other than the one in use.
func (s *Session) RemoveBookmark(id string) error {
	if id == s.store.SelectedID() {
		return ErrBookmarkInUse
	}
	ok, err := s.store.Remove(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBookmark, id)
	}
	return nil
}

// Reload reloads the current page.
func (s *Session) Reload(ctx context.Context) error {
	if s.NeedsSetup() {
		return ErrSetupPending
	}
	return s.obs.Reload(ctx)
}

// Bookmarks returns all bookmarks in insertion order.
func (s *Session) Bookmarks() []model.Bookmark {
	return s.store.Items()
}

// SelectedID returns the id of the bookmark in use, or "".
func (s *Session) SelectedID() string {
	return s.store.SelectedID()
}

// State returns the latest navigation state.
func (s *Session) State() navigation.State {
	return s.obs.State()
}

// ThemeColor returns the current page color, or "".
func (s *Session) ThemeColor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.themeColor
}

// Subscribe registers fn for updates and returns a function that
// unregisters it. fn runs on the Run goroutine.
func (s *Session) Subscribe(fn func(Update)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close stops background audio and detaches from the web view.
func (s *Session) Close(ctx context.Context) {
	s.audio.Stop(ctx)
	s.obs.Detach()
}

func (s *Session) handleState(st navigation.State) {
	s.mu.Lock()
	urlChanged := st.CurrentURL != s.shownURL
	s.shownURL = st.CurrentURL
	changed := st.IsReaderMode != s.readerMode
	s.readerMode = st.IsReaderMode
	theme := s.themeColor
	s.mu.Unlock()

	// Write back only when the displayed URL changes.
	if urlChanged && st.CurrentURL != "" {
		s.writeLastVisited(st.CurrentURL)
	}

	if changed {
		s.log.Debug("reader mode changed", zap.Bool("reader", st.IsReaderMode))
	}
	s.notify(Update{State: st, ThemeColor: theme, ReaderModeChanged: changed})
}

func (s *Session) handleThemeColor(color string) {
	s.mu.Lock()
	s.themeColor = color
	s.mu.Unlock()

	s.notify(Update{State: s.obs.State(), ThemeColor: color})
}

// writeLastVisited persists raw when it is an absolute URL.
func (s *Session) writeLastVisited(raw string) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		s.log.Debug("not recording last visited", zap.String("url", raw))
		return
	}
	if err := s.store.SetLastVisited(u); err != nil {
		s.log.Error("save last visited", zap.Error(err))
	}
}

func (s *Session) notify(u Update) {
	s.subMu.Lock()
	fns := make([]func(Update), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}
