package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/cache"
	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/handler"
	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlinks/pkg/config"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/services"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	// Note: On Vercel, a local sqlite file is ephemeral; point DATABASE_URL at Postgres or Turso.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := sqlstore.Open(ctx, sqlstore.Options{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.PoolSize,
		Production:  cfg.IsProduction(),
	})
	if err != nil {
		panic(err)
	}

	linkCache, err := cache.New(cache.Options{
		Backend:       cfg.CacheBackend,
		TTL:           cfg.CacheTTL,
		MemcacheAddrs: cfg.MemcacheAddrs,
	})
	if err != nil {
		glog.Warningf("cache disabled: %v", err)
	}

	service := services.NewLinkService(store,
		services.WithCache(linkCache),
		services.WithClickTimeout(cfg.ClickTimeout),
	)
	mux = handler.NewRouter(service)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
