package alerts

import (
	"sort"
	"sync"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
)

// Kind is the kind of rental alert.
type Kind string

const (
	KindWarning Kind = "warning"
	KindExpired Kind = "expired"
)

// Record is one fired alert.
type Record struct {
	RentalID    string
	Kind        Kind
	TriggeredAt time.Time
}

type entry struct {
	identity rentals.Identity
	fired    map[Kind]time.Time
}

// Store remembers which alerts have fired for which rental so each
// (rental, kind) pair notifies at most once.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// HasFired reports whether kind has already fired for the rental.
func (s *Store) HasFired(rentalID string, kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[rentalID]
	if !ok {
		return false
	}
	_, fired := e.fired[kind]
	return fired
}

// MarkFired records kind for the rental. It returns true only for the first
// call per (rental, kind); later calls are no-ops. A different identity for a
// known rental id starts over with no records.
func (s *Store) MarkFired(identity rentals.Identity, kind Kind, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[identity.ID]
	if !ok || !e.identity.Equal(identity) {
		e = &entry{identity: identity, fired: make(map[Kind]time.Time, 2)}
		s.entries[identity.ID] = e
	}
	if _, fired := e.fired[kind]; fired {
		return false
	}
	e.fired[kind] = at
	return true
}

// Clear drops all records for the rental.
func (s *Store) Clear(rentalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, rentalID)
}

// Reconcile drops records for rentals that are no longer active and for
// rentals whose check-in or duration changed since they fired. It returns the
// ids that were dropped.
func (s *Store) Reconcile(active map[string]rentals.Identity) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var dropped []string
	for id, e := range s.entries {
		current, ok := active[id]
		if ok && current.Equal(e.identity) {
			continue
		}
		delete(s.entries, id)
		dropped = append(dropped, id)
	}
	sort.Strings(dropped)
	return dropped
}

// Len returns the number of rentals with at least one record.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Records returns all records ordered by rental id then trigger time.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.entries)*2)
	for id, e := range s.entries {
		for kind, at := range e.fired {
			out = append(out, Record{RentalID: id, Kind: kind, TriggeredAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RentalID != out[j].RentalID {
			return out[i].RentalID < out[j].RentalID
		}
		return out[i].TriggeredAt.Before(out[j].TriggeredAt)
	})
	return out
}
