package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pronounproxy/pronounproxy/internal/api"
	"github.com/pronounproxy/pronounproxy/internal/cache"
	"github.com/pronounproxy/pronounproxy/internal/config"
	"github.com/pronounproxy/pronounproxy/internal/upstream"
	"github.com/pronounproxy/pronounproxy/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("pronounproxy starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"base_url", cfg.Server.Upstream.BaseURL,
		"refresh_min", cfg.Server.Upstream.RefreshMin,
		"refresh_max", cfg.Server.Upstream.RefreshMax,
		"pronouns_refresh_max", cfg.Server.Upstream.PronounsRefreshMax,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := upstream.NewClient()
	dict := cache.NewDictionary(cfg.Server.Upstream.BaseURL, client,
		cfg.Server.Upstream.RefreshMin, cfg.Server.Upstream.PronounsRefreshMax)
	users := cache.NewUsers(cfg.Server.Upstream.BaseURL, client, cache.UsersOptions{
		RefreshMin:    cfg.Server.Upstream.RefreshMin,
		RefreshMax:    cfg.Server.Upstream.RefreshMax,
		SweepInterval: cfg.Server.SweepInterval,
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pronounproxy_users_cached",
		Help: "Number of user cache entries, including stale ones not yet swept",
	}, func() float64 { return float64(users.Len()) })
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pronounproxy_dictionary_entries",
		Help: "Number of pronoun definitions currently cached",
	}, func() float64 { return float64(dict.Len()) })

	// Warm the dictionary before accepting traffic. A failure is tolerated:
	// the formatter copes with an empty dictionary until the next window.
	warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := dict.Warm(warmCtx); err != nil {
		slog.Warn("dictionary warm-up failed — serving with empty dictionary", "err", err)
	} else {
		slog.Info("dictionary warmed", "entries", dict.Len())
	}
	warmCancel()

	// Eviction sweeper — bounds user-cache growth for the process lifetime.
	// Shutdown waits for it to observe cancellation before exiting.
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		users.Run(ctx)
	}()

	// Stats hub — pushes cache statistics to overlay clients.
	hub := ws.New(dict, users, cfg.Server.StatsInterval)
	go hub.Run(ctx)

	// Watch config file for hot-reload (logged only; refresh windows apply
	// at the next restart).
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			slog.Info("config hot-reloaded — restart to apply refresh windows",
				"http_port", updated.Server.HTTPPort)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(dict, users))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", promhttp.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("pronounproxy shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck

	// The sweeper touches the user cache map; wait for it to exit cleanly.
	<-sweepDone
}
