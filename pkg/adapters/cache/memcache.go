package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

const keyPrefix = "link:"

// Memcache shares resolved targets between servers. Errors are logged and
// treated as misses; the store stays authoritative.
type Memcache struct {
	mc  *memcache.Client
	ttl int32 // seconds
}

func NewMemcache(ttl time.Duration, addrs ...string) *Memcache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	mc := memcache.New(addrs...)
	mc.Timeout = 200 * time.Millisecond
	return &Memcache{mc: mc, ttl: int32(ttl / time.Second)}
}

func (m *Memcache) Get(_ context.Context, code string) (string, bool) {
	item, err := m.mc.Get(keyPrefix + code)
	if err != nil {
		// Cache misses are expected, but other errors are logged.
		if !errors.Is(err, memcache.ErrCacheMiss) {
			glog.Warningf("mc.Get(%s) %+v", code, err)
		}
		return "", false
	}
	return string(item.Value), true
}

func (m *Memcache) Set(_ context.Context, code, url string) {
	err := m.mc.Set(&memcache.Item{
		Key:        keyPrefix + code,
		Value:      []byte(url),
		Expiration: m.ttl,
	})
	if err != nil {
		glog.Warningf("mc.Set(%s) %+v", code, err)
	}
}

func (m *Memcache) Delete(_ context.Context, code string) {
	err := m.mc.Delete(keyPrefix + code)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		glog.Warningf("mc.Delete(%s) %+v", code, err)
	}
}

var _ ports.LinkCache = (*Memcache)(nil)
