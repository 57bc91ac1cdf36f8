package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/cache"
	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/handler"
	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/monitor"
	"github.com/wadjakorntonsri/shortlinks/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/shortlinks/pkg/config"
	"github.com/wadjakorntonsri/shortlinks/pkg/core/services"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version string

const shutdownGrace = 10 * time.Second

func main() {
	_ = flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	if version != "" {
		handler.Version = version
	}

	cfg := config.Load()

	// Initialize Repository
	openCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := sqlstore.Open(openCtx, sqlstore.Options{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.PoolSize,
		Production:  cfg.IsProduction(),
	})
	cancel()
	if err != nil {
		glog.Fatalf("Failed to connect to database: %v", err)
	}

	linkCache, err := cache.New(cache.Options{
		Backend:       cfg.CacheBackend,
		TTL:           cfg.CacheTTL,
		MemcacheAddrs: cfg.MemcacheAddrs,
	})
	if err != nil {
		glog.Fatalf("Failed to configure cache: %v", err)
	}

	// Initialize Service
	service := services.NewLinkService(store,
		services.WithCache(linkCache),
		services.WithClickTimeout(cfg.ClickTimeout),
	)

	reporter, err := monitor.StartPoolReporter(cfg.StatsSchedule, store)
	if err != nil {
		glog.Warningf("pool stats disabled: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(service),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		glog.Infof("Server starting on port %s (base %s)", cfg.Port, cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	glog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("server shutdown: %v", err)
	}
	// clicks already accepted still get written
	if err := service.Drain(shutdownCtx); err != nil {
		glog.Warningf("click drain: %v", err)
	}
	if reporter != nil {
		reporter.Stop()
	}
	if err := store.Close(); err != nil {
		glog.Errorf("store close: %v", err)
	}
}
