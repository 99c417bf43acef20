package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-planner/internal/config"
)

// Snapshot is a read-only copy of the store contents.
type Snapshot struct {
	Events       []Event
	SelectedDate time.Time
}

// Store owns the ordered event list and the selected date of a document.
// All methods are safe for concurrent use. Subscribers are notified after every
// mutation, outside the lock, with a snapshot taken at mutation time.
type Store struct {
	mu       sync.RWMutex
	events   []Event
	selected time.Time

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// NewStore returns an empty store whose selected date is the day of now.
func NewStore(now time.Time) *Store {
	return &Store{
		selected: StartOfDay(now),
		subs:     make(map[int]func(Snapshot)),
	}
}

// NewStoreFromSnapshot rebuilds a store from persisted contents.
// Events keep their order and identifiers; duplicates and invalid events are rejected.
func NewStoreFromSnapshot(snap Snapshot) (*Store, error) {
	seen := make(map[uuid.UUID]struct{}, len(snap.Events))
	events := make([]Event, 0, len(snap.Events))
	for _, ev := range snap.Events {
		if _, dup := seen[ev.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, ev.ID)
		}
		seen[ev.ID] = struct{}{}
		if err := ev.Draft().Validate(); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrBadEvent, ev.ID, err)
		}
		events = append(events, ev)
	}

	return &Store{
		events:   events,
		selected: StartOfDay(snap.SelectedDate),
		subs:     make(map[int]func(Snapshot)),
	}, nil
}

// Add validates d and appends it as a new event with a fresh identifier.
func (s *Store) Add(d Draft) (Event, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return Event{}, err
	}
	ev := d.event(uuid.New())

	s.mu.Lock()
	s.events = append(s.events, ev)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.Debug(config.MsgEventAdded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, ev.ID.String())
	s.notify(snap)
	return ev, nil
}

// Update replaces the event with the given id, keeping its identifier and position.
// It returns false when no such event exists; the store is then left untouched.
func (s *Store) Update(id uuid.UUID, d Draft) (bool, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.events[idx] = d.event(id)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.Debug(config.MsgEventUpdated,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, id.String())
	s.notify(snap)
	return true, nil
}

// Remove deletes the event with the given id. Unknown ids are ignored.
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.events = append(s.events[:idx], s.events[idx+1:]...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	slog.Debug(config.MsgEventRemoved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, id.String())
	s.notify(snap)
	return true
}

// AddAll appends every valid draft and returns how many were stored.
// Subscribers are notified once.
func (s *Store) AddAll(drafts []Draft) int {
	added := make([]Event, 0, len(drafts))
	for _, d := range drafts {
		d = d.Normalize()
		if d.Validate() != nil {
			continue
		}
		added = append(added, d.event(uuid.New()))
	}
	if len(added) == 0 {
		return 0
	}

	s.mu.Lock()
	s.events = append(s.events, added...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return len(added)
}

// Get returns the event with the given id.
func (s *Store) Get(id uuid.UUID) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.events[idx], true
	}
	return Event{}, false
}

// Events returns a copy of all events in insertion order.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// SelectedDate returns the selected calendar day (midnight).
func (s *Store) SelectedDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Select sets the selected day. Subscribers are notified only on change.
func (s *Store) Select(day time.Time) {
	day = StartOfDay(day)

	s.mu.Lock()
	if s.selected.Equal(day) {
		s.mu.Unlock()
		return
	}
	s.selected = day
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// EventsOn returns the events starting on day, sorted by start.
func (s *Store) EventsOn(day time.Time) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return EventsOn(s.events, day)
}

// Snapshot returns a copy of the store contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after each mutation.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(Snapshot))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return Snapshot{Events: events, SelectedDate: s.selected}
}

func (s *Store) indexLocked(id uuid.UUID) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
