package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryStore created by NewMemoryStore.
const DefaultMaxEntries = 10000

// MemoryStore is an in-process Store. It backs local runs without Redis.
// When full, a Set of a new key first sweeps expired entries, then evicts the
// oldest entry that has a ttl, and only then the oldest entry without one.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	seq        uint64
	now        func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	seq       uint64
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// NewMemoryStore creates an empty MemoryStore holding at most DefaultMaxEntries keys.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithLimit(DefaultMaxEntries)
}

// NewMemoryStoreWithLimit creates an empty MemoryStore holding at most
// maxEntries keys. A limit below one uses DefaultMaxEntries.
func NewMemoryStoreWithLimit(maxEntries int) *MemoryStore {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}

	return &MemoryStore{entries: make(map[string]memoryEntry), maxEntries: maxEntries, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if entry.expired(s.now()) {
		delete(s.entries, key)
		return nil, ErrNotFound
	}

	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxEntries {
		s.evict()
	}

	s.seq++
	entry := memoryEntry{value: append([]byte(nil), value...), seq: s.seq}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}

// evict makes room for one entry. Callers hold s.mu.
func (s *MemoryStore) evict() {
	now := s.now()

	var (
		expiring, permanent       string
		expiringSeq, permanentSeq uint64
	)
	for key, entry := range s.entries {
		switch {
		case entry.expired(now):
			delete(s.entries, key)
		case !entry.expiresAt.IsZero():
			if expiring == "" || entry.seq < expiringSeq {
				expiring, expiringSeq = key, entry.seq
			}
		default:
			if permanent == "" || entry.seq < permanentSeq {
				permanent, permanentSeq = key, entry.seq
			}
		}
	}

	if len(s.entries) < s.maxEntries {
		return
	}
	if expiring != "" {
		delete(s.entries, expiring)
		return
	}
	delete(s.entries, permanent)
}
