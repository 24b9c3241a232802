package store

// EventKind identifies what changed in the store.
type EventKind int

const (
	EventAdded EventKind = iota
	EventUpdated
	EventRemoved
	EventSelected
	EventLastVisited
)

// Event describes a persisted change. ID is set for bookmark and selection
// events, URL for last-visited events.
type Event struct {
	Kind EventKind
	ID   string
	URL  string
}

// Subscribe registers fn for change events and returns a function that
// unregisters it. fn runs synchronously on the mutating goroutine, after the
// change is persisted and outside the store lock.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
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

func (s *Store) emit(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
