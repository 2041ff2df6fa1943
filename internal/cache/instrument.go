package cache

import (
	"context"
	"time"
)

// LookupRecorder receives the outcome of every cache read.
type LookupRecorder interface {
	CacheLookup(resource string, hit bool)
}

type instrumented struct {
	Cache
	recorder LookupRecorder
}

// Instrument wraps c so that each Get reports a hit or miss, labelled with the
// resource kind of the key, to recorder.
func Instrument(c Cache, recorder LookupRecorder) Cache {
	if recorder == nil {
		return c
	}
	return &instrumented{Cache: c, recorder: recorder}
}

func (i *instrumented) Get(ctx context.Context, key string) (any, bool) {
	v, ok := i.Cache.Get(ctx, key)
	i.recorder.CacheLookup(kindOf(key), ok)
	return v, ok
}

func (i *instrumented) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	i.Cache.Set(ctx, key, value, ttl)
}
