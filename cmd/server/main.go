package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chsearch/internal/audit"
	"chsearch/internal/companieshouse"
	"chsearch/internal/platform/config"
	"chsearch/internal/platform/httpserver"
	"chsearch/internal/platform/logger"
	"chsearch/internal/platform/metrics"
	"chsearch/internal/platform/postgres"
	platformredis "chsearch/internal/platform/redis"
	"chsearch/internal/preset"
	"chsearch/internal/ratelimit"
	"chsearch/internal/search"
	"chsearch/internal/search/cache"
	"chsearch/internal/snapshot"
	"chsearch/internal/stats"
	httptransport "chsearch/internal/transport/http"
)

// main wires the dependency graph and owns the server lifecycle. Redis,
// Postgres and Kafka are all optional; each missing one degrades to an
// in-process fallback so a bare API key is enough to run locally.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx := context.Background()

	upstream, err := companieshouse.NewClient(cfg.CompaniesHouse,
		companieshouse.WithLogger(log),
		companieshouse.WithMetrics(m),
	)
	if err != nil {
		log.Error("companies house client init failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	db, err := postgres.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres init failed", "error", err)
		os.Exit(1)
	}

	var durable cache.Store
	if redisClient != nil {
		durable = cache.NewRedisStore(redisClient.Client)
	}
	tiered := cache.NewTiered(durable, cache.NewMemoryStore(),
		cache.WithLogger(log),
		cache.WithMetrics(m),
	)

	var snapshots snapshot.Store = snapshot.NewMemoryStore()
	var presets preset.Store = preset.NewMemoryStore()
	var statsStore stats.Store = stats.NewMemoryStore()
	if db != nil {
		pgSnapshots := snapshot.NewPostgresStore(db.Pool)
		snapshots = pgSnapshots
		presets = preset.NewPostgresStore(db.Pool)
		statsStore = stats.NewPostgresStore(db.Pool)
		go pruneSnapshots(ctx, pgSnapshots, log)
	}

	auditor, err := audit.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, audit.WithLogger(log))
	if err != nil {
		log.Error("audit publisher init failed", "error", err)
		os.Exit(1)
	}
	defer auditor.Close()

	engine := search.New(upstream, tiered, snapshots,
		search.WithLogger(log),
		search.WithMetrics(m),
		search.WithStats(statsStore),
		search.WithAuditPublisher(auditor),
	)

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient.Client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	var dbPinger, redisPinger httptransport.Pinger
	if db != nil {
		dbPinger = db
	}
	if redisClient != nil {
		redisPinger = redisClient
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Search:     httptransport.NewSearchHandler(engine, snapshots, statsStore, auditor, log, m),
		Presets:    httptransport.NewPresetHandler(presets, log),
		Health:     httptransport.NewHealthHandler(dbPinger, redisPinger, upstream),
		Limiter:    limiter,
		LimiterMax: cfg.RateLimit.Requests,
		Logger:     log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening",
			"addr", cfg.Addr,
			"redis", redisClient != nil,
			"postgres", db != nil,
			"kafka", len(cfg.KafkaBrokers) > 0,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		db.Close()
	}
}

// pruneSnapshots clears expired snapshot rows hourly. Load enforces retention
// on its own; this only keeps the table from growing without bound.
func pruneSnapshots(ctx context.Context, store *snapshot.PostgresStore, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Prune(ctx)
			if err != nil {
				log.Warn("snapshot prune failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("pruned expired snapshots", "rows", n)
			}
		}
	}
}
