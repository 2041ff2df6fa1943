package cache

import (
	"fmt"
	"time"
)

// Drivers accepted by New.
const (
	DriverMemory  = "memory"
	DriverSturdyc = "sturdyc"
)

// Options selects and sizes a backend.
type Options struct {
	Driver   string
	TTL      time.Duration
	Capacity int
}

// New builds the backend named by opts.Driver.
func New(opts Options) (Cache, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewTTLStore(opts.TTL), nil
	case DriverSturdyc:
		return NewSturdycStore(SturdycConfig{Capacity: opts.Capacity, TTL: opts.TTL}), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", opts.Driver)
	}
}
