// Package cache provides LinkCache backends for the redirect path.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// Backends accepted by New.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendMemcache = "memcache"
)

// Options selects and tunes a cache backend.
type Options struct {
	Backend       string
	TTL           time.Duration
	MemcacheAddrs []string
}

// New returns the configured cache, or nil when caching is disabled.
func New(opts Options) (ports.LinkCache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemory(opts.TTL), nil
	case BackendMemcache:
		if len(opts.MemcacheAddrs) == 0 {
			return nil, fmt.Errorf("cache backend %q needs at least one server address", opts.Backend)
		}
		return NewMemcache(opts.TTL, opts.MemcacheAddrs...), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
