package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// Memory is an in-process cache; it is only coherent for a single server.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Memory{c: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(_ context.Context, code string) (string, bool) {
	v, ok := m.c.Get(code)
	if !ok {
		return "", false
	}
	target, ok := v.(string)
	return target, ok
}

func (m *Memory) Set(_ context.Context, code, url string) {
	m.c.Set(code, url, gocache.DefaultExpiration)
}

func (m *Memory) Delete(_ context.Context, code string) {
	m.c.Delete(code)
}

var _ ports.LinkCache = (*Memory)(nil)
