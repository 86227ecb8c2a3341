package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxEntries bounds the in-memory cache when no size is configured
const DefaultMaxEntries = 10000

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache is an in-process Cache. Expiry is checked lazily on Get;
// there is no background sweep.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryCache creates an in-process cache holding at most maxEntries keys
func NewMemoryCache(maxEntries int) (*MemoryCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	entries, err := lru.New[string, memoryEntry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	return &MemoryCache{
		entries: entries,
		now:     time.Now,
	}, nil
}

// Get returns the value for key. An entry past its expiry is removed and
// reported absent; it is still served at the expiry instant itself.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return "", false, nil
	}

	if m.now().After(entry.expiresAt) {
		m.entries.Remove(key)
		return "", false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key for ttl (DefaultTTL when ttl <= 0)
func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.entries.Add(key, memoryEntry{
		value:     value,
		expiresAt: m.now().Add(effectiveTTL(ttl)),
	})
	return nil
}

// Len reports the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	return m.entries.Len()
}
