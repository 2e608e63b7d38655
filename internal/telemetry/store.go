package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store holds the most recent complete Snapshot. Readers always see either
// the prior snapshot or the new one, never a mix: Publish swaps a pointer to
// a fully built value.
type Store struct {
	current atomic.Pointer[Snapshot]

	mu          sync.RWMutex
	staleErr    error
	lastRefresh time.Time
}

// NewStore returns a Store holding an empty snapshot so readers never see nil.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{})
	return s
}

// Publish replaces the current snapshot and clears staleness. snap must not be
// modified afterwards.
func (s *Store) Publish(snap *Snapshot) error {
	if snap == nil {
		return errFactory.New(ErrInvalidSnapshot)
	}

	s.current.Store(snap)

	s.mu.Lock()
	s.staleErr = nil
	s.lastRefresh = snap.CapturedAt
	s.mu.Unlock()

	return nil
}

// Current returns the latest published snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// MarkStale records that a refresh failed. The current snapshot is kept.
func (s *Store) MarkStale(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleErr = cause
}

// Stale reports whether the last refresh failed, and why.
func (s *Store) Stale() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staleErr != nil, s.staleErr
}

// LastRefresh is the capture time of the last published snapshot, zero if
// none has been published yet.
func (s *Store) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}
