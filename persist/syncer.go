package persist

import (
	"log"
	"sync"
	"time"

	"preset-library/events"
	"preset-library/library"
)

// Syncer keeps the durable snapshot eventually consistent with the
// in-memory forest. Every mutation schedules a write; scheduling again
// inside the debounce window pushes the write out, so a burst of
// mutations collapses into one save. The timer body reads the store at
// fire time, never a snapshot captured when the write was scheduled.
type Syncer struct {
	store    *library.Store
	backend  Snapshots
	debounce time.Duration
	bus      *events.Bus

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

// NewSyncer builds a Syncer. bus may be nil; save failures are then
// only logged.
func NewSyncer(store *library.Store, backend Snapshots, debounce time.Duration, bus *events.Bus) *Syncer {
	return &Syncer{store: store, backend: backend, debounce: debounce, bus: bus}
}

// Schedule arms (or re-arms) the debounced write. Safe to call from the
// store's change hook.
func (s *Syncer) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = true
	s.timer = time.AfterFunc(s.debounce, func() {
		if s.consume() {
			s.save()
		}
	})
}

// Flush writes immediately if a save is pending. Used at shutdown.
func (s *Syncer) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	if s.consume() {
		s.save()
	}
}

// consume claims the pending write. Both the timer body and Flush go
// through here, so a Flush racing a just-fired timer results in one
// save, not two.
func (s *Syncer) consume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending
	s.pending = false
	return pending
}

// Stop cancels any pending write without performing it.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = false
	s.mu.Unlock()
}

// Pending reports whether a write is currently scheduled.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Syncer) save() {
	if err := s.backend.SaveSnapshot(s.store.Entries()); err != nil {
		// The in-memory forest stays authoritative; the next mutation's
		// debounce cycle retries.
		log.Printf("snapshot save failed: %v", err)
		if s.bus != nil {
			s.bus.Publish(events.Event{Type: events.PersistError, Error: err.Error()})
		}
	}
}
