package repository

import (
	"context"
	"sync"

	"github.com/fancred/fancred/internal/domain/model"
)

// entry pairs a record with its own lock so increments for the same
// account serialize without blocking other accounts.
type entry struct {
	mu  sync.Mutex
	rec model.ActivityRecord
}

// MemoryStore implements Store with an in-process map. It is the
// reference implementation and the default backend.
type MemoryStore struct {
	mu       sync.RWMutex // guards the entries map, not the records
	entries  map[string]*entry
	baseline BaselineGenerator
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory activity store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := newSettings(opts)
	return &MemoryStore{
		entries:  make(map[string]*entry),
		baseline: s.baseline,
	}
}

// lookup returns the entry for accountID, seeding a baseline record on
// first sight.
func (s *MemoryStore) lookup(accountID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[accountID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.entries[accountID]; ok {
		return e
	}
	e = &entry{rec: s.baseline.Baseline(accountID)}
	s.entries[accountID] = e
	return e
}

// GetOrCreate returns a copy of the record for accountID.
func (s *MemoryStore) GetOrCreate(_ context.Context, accountID string) (model.ActivityRecord, error) {
	if accountID == "" {
		return model.ActivityRecord{}, ErrInvalidAccount
	}
	e := s.lookup(accountID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, nil
}

// Apply increments the counter named by action and returns the updated
// record. The per-entry lock is held only for the counter update.
func (s *MemoryStore) Apply(_ context.Context, accountID string, action Action) (model.ActivityRecord, error) {
	if accountID == "" {
		return model.ActivityRecord{}, ErrInvalidAccount
	}
	if !action.Valid() {
		return model.ActivityRecord{}, ErrInvalidAction
	}

	e := s.lookup(accountID)
	e.mu.Lock()
	defer e.mu.Unlock()
	switch action {
	case ActionCompleteRitual:
		e.rec.RitualsCompleted++
	case ActionAcquireNFT:
		e.rec.NFTsHeld++
	}
	return e.rec, nil
}

// Count returns the number of accounts tracked.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
