package correlation

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and engine-less deployments.
// Consumed keys leave a tombstone for one TTL window so duplicates can be
// told apart from dangling callbacks.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	pending  map[string]memEntry
	consumed map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &MemoryStore{
		ttl:      ttl,
		pending:  make(map[string]memEntry),
		consumed: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pending[key] = memEntry{entry: e, expiresAt: now.Add(s.ttl)}
	delete(s.consumed, key)
	s.prune(now)
	return nil
}

func (s *MemoryStore) Take(_ context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)

	if me, ok := s.pending[key]; ok {
		delete(s.pending, key)
		s.consumed[key] = now.Add(s.ttl)
		return me.entry, nil
	}
	if exp, ok := s.consumed[key]; ok && now.Before(exp) {
		return Entry{}, ErrAlreadyConsumed
	}
	return Entry{}, ErrNotFound
}

// prune drops expired pending entries and stale tombstones. Callers hold mu.
func (s *MemoryStore) prune(now time.Time) {
	for k, me := range s.pending {
		if now.After(me.expiresAt) {
			delete(s.pending, k)
		}
	}
	for k, exp := range s.consumed {
		if now.After(exp) {
			delete(s.consumed, k)
		}
	}
}
