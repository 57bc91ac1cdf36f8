package services

import (
	"context"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/shortcode"
	"github.com/wadjakorntonsri/shortlinks/pkg/ports"
)

// Resolver maps a code to its target URL. It has no side effects besides
// filling the optional cache.
type Resolver struct {
	repo  ports.LinkRepository
	cache ports.LinkCache
}

// NewResolver builds a Resolver; cache may be nil.
func NewResolver(repo ports.LinkRepository, cache ports.LinkCache) *Resolver {
	return &Resolver{repo: repo, cache: cache}
}

func (r *Resolver) Resolve(ctx context.Context, code string) (string, error) {
	// nothing malformed was ever stored
	if !shortcode.Valid(code) {
		return "", domain.ErrNotFound
	}

	if r.cache != nil {
		if target, ok := r.cache.Get(ctx, code); ok {
			return target, nil
		}
	}

	link, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		r.cache.Set(ctx, code, link.URL)
	}
	return link.URL, nil
}

// Forget evicts code from the cache.
func (r *Resolver) Forget(ctx context.Context, code string) {
	if r.cache != nil {
		r.cache.Delete(ctx, code)
	}
}
