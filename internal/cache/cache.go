package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Store is a TTL byte cache for query results. Invalidate drops everything
// stored so far; implementations are allowed to do so lazily (stale entries
// become unreachable rather than deleted).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context)
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is the process-local fallback used when redis is not
// configured. Invalidation bumps a generation that is mixed into every key,
// so old entries simply expire unobserved.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	gen     uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[s.genKey(key)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	// Opportunistic sweep keeps the map from holding every expired window.
	if len(s.entries) > 512 {
		for k, entry := range s.entries {
			if now.After(entry.expiresAt) {
				delete(s.entries, k)
			}
		}
	}
	s.entries[s.genKey(key)] = memoryEntry{value: value, expiresAt: now.Add(ttl)}
}

func (s *MemoryStore) Invalidate(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

func (s *MemoryStore) genKey(key string) string {
	return strconv.FormatUint(s.gen, 10) + ":" + key
}
