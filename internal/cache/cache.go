// Package cache holds the process-wide query cache shared by the resource
// services, the key scheme for cached list pages, and its backends.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a key/value store with per-entry expiry. A Get on an expired key is
// a miss. Individual operations are safe for concurrent use; there is no
// locking across operations.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
	// DeleteByPrefix removes every key starting with prefix and reports how
	// many entries were removed.
	DeleteByPrefix(ctx context.Context, prefix string) int
	Close()
}

// Kind names a cached resource collection.
type Kind string

const (
	KindRecipes    Kind = "recipes"
	KindCategories Kind = "categories"
	KindCountries  Kind = "countries"
)

// ListKey returns the cache key of one list page of kind.
func ListKey(kind Kind, page, limit int) string {
	return fmt.Sprintf("%s_list_page_%d_%d", kind, page, limit)
}

// KindPrefix returns the prefix shared by every key of kind.
func KindPrefix(kind Kind) string {
	return string(kind) + "_"
}

// kindOf extracts the resource kind from a key built by ListKey.
func kindOf(key string) string {
	kind, _, ok := strings.Cut(key, "_")
	if !ok {
		return "unknown"
	}
	return kind
}

// GetAs reads key from c and type-asserts it to T. A value of another type
// counts as a miss.
func GetAs[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Invalidate drops every cached entry of the given kinds.
func Invalidate(ctx context.Context, c Cache, kinds ...Kind) {
	if c == nil {
		return
	}
	for _, kind := range kinds {
		c.DeleteByPrefix(ctx, KindPrefix(kind))
	}
}
