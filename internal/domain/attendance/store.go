package attendance

import (
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/domain/cycle"
	"github.com/google/uuid"
)

type entryKey struct {
	workerID string
	date     string
}

func keyOf(workerID string, date time.Time) entryKey {
	return entryKey{workerID: workerID, date: cycle.FormatDate(cycle.DateOf(date))}
}

// Store is the in-memory set of entries for one view of the grid.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[entryKey]Entry
	newID   func() string
}

// NewStore returns an empty store. newID may be nil, in which case
// identifiers are UUIDv7 strings.
func NewStore(newID func() string) *Store {
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	return &Store{
		entries: make(map[entryKey]Entry),
		newID:   newID,
	}
}

// NewStoreFrom seeds a store with already persisted entries.
func NewStoreFrom(entries []Entry) *Store {
	s := NewStore(nil)
	for _, e := range entries {
		s.Put(e)
	}
	return s
}

func (s *Store) Get(workerID string, date time.Time) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[keyOf(workerID, date)]
	return e, ok
}

// Upsert merges p into the entry for (workerID, date). It reports false and
// leaves the store untouched when there is no entry and p has no status.
func (s *Store) Upsert(workerID string, date time.Time, p Patch) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := keyOf(workerID, date)
	var prior *Entry
	if e, ok := s.entries[k]; ok {
		prior = &e
	}

	merged, ok := Merge(prior, workerID, date, p)
	if !ok {
		return Entry{}, false
	}
	if merged.ID == "" {
		merged.ID = s.newID()
	}
	s.entries[k] = merged
	return merged, true
}

// Put replaces the entry for e's (worker, date) as-is. Used to reconcile the
// store with a row returned by the database.
func (s *Store) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.Date = cycle.DateOf(e.Date)
	s.entries[keyOf(e.WorkerID, e.Date)] = e
}

// Entries returns a snapshot ordered by worker then date.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkerID != out[j].WorkerID {
			return out[i].WorkerID < out[j].WorkerID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
