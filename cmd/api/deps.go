package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/arogyamitra/internal/auth"
	"github.com/geocoder89/arogyamitra/internal/cache"
	"github.com/geocoder89/arogyamitra/internal/config"
	"github.com/geocoder89/arogyamitra/internal/credentials"
	"github.com/geocoder89/arogyamitra/internal/db"
	"github.com/geocoder89/arogyamitra/internal/diagnosis"
	httpx "github.com/geocoder89/arogyamitra/internal/http"
	"github.com/geocoder89/arogyamitra/internal/http/handlers"
	"github.com/geocoder89/arogyamitra/internal/observability"
	"github.com/geocoder89/arogyamitra/internal/repo/memory"
	"github.com/geocoder89/arogyamitra/internal/repo/postgres"
	"github.com/geocoder89/arogyamitra/internal/security"
)

// buildDeps wires storage, cache, hashing, tokens and the diagnosis client
// from cfg. The returned func releases pools and connections.
func buildDeps(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (httpx.Deps, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	checks := map[string]handlers.Pinger{}

	var (
		users   credentials.UserRepo
		reports handlers.ReportStore
	)

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return httpx.Deps{}, closeAll, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)

		if err := db.Migrate(ctx, pool); err != nil {
			closeAll()
			return httpx.Deps{}, func() {}, fmt.Errorf("migrate: %w", err)
		}

		users = postgres.NewUsersRepo(pool, prom)
		reports = postgres.NewReportsRepo(pool, prom)
		checks["postgres"] = pool.Ping
	default:
		users = memory.NewUsersRepo()
		reports = memory.NewReportsRepo()
	}

	switch cfg.ReportsCache {
	case "redis":
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.ReportsCacheTTL,
		})
		closers = append(closers, func() { _ = rc.Close() })

		// the cache is an optimisation; a down redis is logged, not fatal
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
		}

		reports = cache.NewCachedReports(reports, rc, prom, log)
		checks["redis"] = rc.Ping
	case "memory":
		reports = cache.NewCachedReports(reports, cache.NewMemory(cfg.ReportsCacheTTL), prom, log)
	}

	hasher, err := security.NewHasher(cfg.PasswordHasher)
	if err != nil {
		closeAll()
		return httpx.Deps{}, func() {}, err
	}

	var tokens *auth.Manager
	if cfg.JWTSecret != "" {
		tokens = auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	}

	gemini := diagnosis.NewGeminiClient(&http.Client{Timeout: cfg.DiagnosisTimeout}, cfg.GeminiAPIURL, cfg.GeminiAPIKey)
	protected := diagnosis.NewProtectedGenerator(gemini, diagnosis.BreakerConfig{
		FailureThreshold: cfg.DiagnosisBreakerFailures,
		Cooldown:         cfg.DiagnosisBreakerCooldown,
	})

	return httpx.Deps{
		Credentials: credentials.NewService(users, hasher),
		Reports:     reports,
		Diagnoser: diagnosis.NewClient(protected, cfg.DiagnosisTimeout,
			diagnosis.WithLogger(log),
			diagnosis.WithProm(prom),
		),
		Tokens:      tokens,
		Prom:        prom,
		ReadyChecks: checks,
	}, closeAll, nil
}
