package cache

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../mocks/mock_cache.go -package=mocks usercache-be/internal/cache Cache

// DefaultTTL applies when Set is called with a zero or negative ttl
const DefaultTTL = 3600 * time.Second

// Cache is a key/value store with per-key expiry.
// A missing or expired key is reported through found=false, never as an error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// KeyForUser returns the cache key under which a user record is stored
func KeyForUser(id string) string {
	return "user:" + id
}

func effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
