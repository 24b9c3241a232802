// Package store owns the bookmark list, the in-use selection and the last
// visited URL, and persists each of them under its own key on every change.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nikbrunner/yuedu/internal/model"
	"github.com/nikbrunner/yuedu/internal/storage"
)

// Persistence keys. Changing the record format requires a new suffix.
const (
	keyPrefix      = "yuedu.urlstore."
	KeyItems       = keyPrefix + "items.v1"
	KeySelected    = keyPrefix + "selected.v1"
	KeyLastVisited = keyPrefix + "lastVisited.v1"
)

// ErrEmptyURL is returned by Add when the URL is blank after trimming.
var ErrEmptyURL = errors.New("url is empty")

// Store is the process-wide bookmark store.
type Store struct {
	storage storage.Storage
	log     *zap.Logger

	mu          sync.Mutex
	items       []model.Bookmark
	selectedID  string
	lastVisited string

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// Params holds parameters for opening a Store.
type Params struct {
	Storage storage.Storage
	Logger  *zap.Logger // optional, no-op if nil
}

// Open loads the store from storage. Undecodable items are treated as an
// empty list; a missing or stale selection falls back to the first item.
func Open(params Params) (*Store, error) {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		storage: params.Storage,
		log:     log.Named("store"),
		items:   []model.Bookmark{},
		subs:    map[int]func(Event){},
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := s.storage.Get(KeyItems)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load items: %w", err)
	default:
		var items []model.Bookmark
		if err := json.Unmarshal(data, &items); err != nil {
			s.log.Error("decode items, starting empty", zap.Error(err))
		} else if items != nil {
			s.items = items
		}
	}
	s.log.Debug("loaded items", zap.Int("count", len(s.items)))

	saved, err := s.storage.Get(KeySelected)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load selected: %w", err)
	}
	if id := string(saved); id != "" && s.indexOf(id) >= 0 {
		s.selectedID = id
	} else if len(s.items) > 0 {
		s.selectedID = s.items[0].ID
		s.log.Info("selection missing or stale, using first item",
			zap.String("saved", id), zap.String("selected", s.selectedID))
		if err := s.saveSelected(); err != nil {
			return err
		}
	}

	last, err := s.storage.Get(KeyLastVisited)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load last visited: %w", err)
	}
	s.lastVisited = string(last)

	return nil
}

// Add creates a bookmark, selects it when nothing is selected yet, and
// persists before returning.
func (s *Store) Add(name, rawURL string) (model.Bookmark, error) {
	if strings.TrimSpace(rawURL) == "" {
		return model.Bookmark{}, ErrEmptyURL
	}
	b := model.NewBookmark(model.NewBookmarkParams{Name: name, URL: rawURL})

	s.mu.Lock()
	s.items = append(s.items, b)
	selected := false
	if s.selectedID == "" {
		s.selectedID = b.ID
		selected = true
	}
	err := s.saveItems()
	s.mu.Unlock()

	s.log.Info("added bookmark", zap.String("id", b.ID), zap.String("url", b.URL))
	if err != nil {
		return b, err
	}

	s.emit(Event{Kind: EventAdded, ID: b.ID})
	if selected {
		s.emit(Event{Kind: EventSelected, ID: b.ID})
	}
	return b, nil
}

// Update overwrites name and URL. It is a no-op returning false for the
// selected bookmark and for unknown ids.
func (s *Store) Update(id, name, rawURL string) (bool, error) {
	s.mu.Lock()
	if id == s.selectedID {
		s.mu.Unlock()
		s.log.Warn("update of selected bookmark ignored", zap.String("id", id))
		return false, nil
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("update of unknown bookmark ignored", zap.String("id", id))
		return false, nil
	}
	s.items[idx].Name = name
	s.items[idx].URL = model.NormalizeURL(rawURL)
	err := s.saveItems()
	s.mu.Unlock()

	s.log.Info("updated bookmark", zap.String("id", id))
	if err != nil {
		return true, err
	}
	s.emit(Event{Kind: EventUpdated, ID: id})
	return true, nil
}

// Remove deletes a bookmark. It is a no-op returning false for the selected
// bookmark and for unknown ids.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	if id == s.selectedID {
		s.mu.Unlock()
		s.log.Warn("removal of selected bookmark ignored", zap.String("id", id))
		return false, nil
	}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("removal of unknown bookmark ignored", zap.String("id", id))
		return false, nil
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	err := s.saveItems()
	s.mu.Unlock()

	s.log.Info("removed bookmark", zap.String("id", id), zap.String("url", removed.URL))
	if err != nil {
		return true, err
	}
	s.emit(Event{Kind: EventRemoved, ID: id})
	return true, nil
}

// Select marks id as in use. An empty id clears the selection. The id is not
// validated; a stale value is repaired on the next Open.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	s.selectedID = id
	err := s.saveSelected()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.emit(Event{Kind: EventSelected, ID: id})
	return nil
}

// SetLastVisited stores u, or clears it when u is nil.
func (s *Store) SetLastVisited(u *url.URL) error {
	value := ""
	if u != nil {
		value = u.String()
	}

	s.mu.Lock()
	s.lastVisited = value
	var err error
	if value == "" {
		err = s.storage.Delete(KeyLastVisited)
	} else {
		err = s.storage.Set(KeyLastVisited, []byte(value))
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("save last visited: %w", err)
	}
	s.emit(Event{Kind: EventLastVisited, URL: value})
	return nil
}

// LastVisitedURL returns the last visited URL, or nil if unset or unparsable.
func (s *Store) LastVisitedURL() *url.URL {
	s.mu.Lock()
	raw := s.lastVisited
	s.mu.Unlock()

	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}

// Item finds a bookmark by id.
func (s *Store) Item(id string) (model.Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return model.Bookmark{}, false
	}
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	return model.Bookmark{}, false
}

// Items returns a copy of all bookmarks in insertion order.
func (s *Store) Items() []model.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]model.Bookmark(nil), s.items...)
}

// SelectedID returns the id of the bookmark in use, or "".
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedID
}

// Selected returns the bookmark in use.
func (s *Store) Selected() (model.Bookmark, bool) {
	return s.Item(s.SelectedID())
}

// HasURL reports whether a bookmark with the same normalized URL exists.
func (s *Store) HasURL(rawURL string) bool {
	target := model.NormalizeURL(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.items {
		if b.URL == target {
			return true
		}
	}
	return false
}

// indexOf returns the position of id in items, or -1. Caller holds mu.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// saveItems writes the list and the selection. Caller holds mu.
func (s *Store) saveItems() error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := s.storage.Set(KeyItems, data); err != nil {
		s.log.Error("save items failed", zap.Error(err))
		return fmt.Errorf("save items: %w", err)
	}
	return s.saveSelected()
}

// saveSelected writes or clears the selection key. Caller holds mu.
func (s *Store) saveSelected() error {
	var err error
	if s.selectedID == "" {
		err = s.storage.Delete(KeySelected)
	} else {
		err = s.storage.Set(KeySelected, []byte(s.selectedID))
	}
	if err != nil {
		s.log.Error("save selection failed", zap.Error(err))
		return fmt.Errorf("save selected: %w", err)
	}
	return nil
}
