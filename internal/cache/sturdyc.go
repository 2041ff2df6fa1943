package cache

import (
	"context"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// SturdycConfig sizes the bounded cache backend.
type SturdycConfig struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// SturdycStore is a bounded Cache backend. When Capacity is reached it evicts
// EvictionPercentage of the entries. Every entry lives for the client TTL; the
// ttl argument of Set is ignored.
type SturdycStore struct {
	client *sturdyc.Client[any]
}

// NewSturdycStore creates a SturdycStore. Zero-valued sizing fields fall back
// to defaults.
func NewSturdycStore(cfg SturdycConfig) *SturdycStore {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = 64
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = 10
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &SturdycStore{
		client: sturdyc.New[any](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}
}

func (s *SturdycStore) Get(_ context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

func (s *SturdycStore) Set(_ context.Context, key string, value any, _ time.Duration) {
	s.client.Set(key, value)
}

func (s *SturdycStore) Delete(_ context.Context, key string) {
	s.client.Delete(key)
}

func (s *SturdycStore) DeleteByPrefix(_ context.Context, prefix string) int {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}
	return removed
}

// Close is a no-op; sturdyc has no background loop to stop.
func (s *SturdycStore) Close() {}
