package cache

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// TTLStore is the default Cache backend. Entries expire ttl after insertion;
// reads do not extend their lifetime. The store is unbounded.
type TTLStore struct {
	items *ttlcache.Cache[string, any]
}

// NewTTLStore creates a TTLStore whose entries default to defaultTTL and starts
// the background loop that purges expired entries. Call Close to stop it.
func NewTTLStore(defaultTTL time.Duration) *TTLStore {
	items := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go items.Start()
	return &TTLStore{items: items}
}

// Get returns the value stored under key, or false when absent or expired.
func (s *TTLStore) Get(_ context.Context, key string) (any, bool) {
	item := s.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value(), true
}

// Set stores value under key for ttl. A non-positive ttl uses the store default.
func (s *TTLStore) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.items.Set(key, value, ttl)
}

// Delete removes key.
func (s *TTLStore) Delete(_ context.Context, key string) {
	s.items.Delete(key)
}

// DeleteByPrefix removes every key starting with prefix.
func (s *TTLStore) DeleteByPrefix(_ context.Context, prefix string) int {
	removed := 0
	for _, key := range s.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			s.items.Delete(key)
			removed++
		}
	}
	return removed
}

// Close stops the expiry loop.
func (s *TTLStore) Close() {
	s.items.Stop()
}
