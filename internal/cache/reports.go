package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/geocoder89/arogyamitra/internal/domain/report"
	"github.com/geocoder89/arogyamitra/internal/observability"
)

// ReportStore is the storage contract the cache sits in front of.
type ReportStore interface {
	Insert(ctx context.Context, r report.Report) error
	ListForUser(ctx context.Context, userID string, limit int) ([]report.Report, error)
}

// CachedReports caches the default-size listing per user. Entries are keyed
// by a per-user generation that every insert bumps, so a listing computed
// before an insert can only ever be written under a retired key.
// Cache errors never fail a request.
type CachedReports struct {
	inner ReportStore
	store Store
	prom  *observability.Prom
	log   *slog.Logger
}

func NewCachedReports(inner ReportStore, store Store, prom *observability.Prom, log *slog.Logger) *CachedReports {
	if log == nil {
		log = slog.Default()
	}
	return &CachedReports{inner: inner, store: store, prom: prom, log: log}
}

func UserReportsGenKey(userID string) string {
	return "reports:user:v1:" + userID + ":gen"
}

func UserReportsKey(userID string, gen int64) string {
	return "reports:user:v1:" + userID + ":gen=" + strconv.FormatInt(gen, 10) + ":limit=10"
}

func (c *CachedReports) Insert(ctx context.Context, r report.Report) error {
	if err := c.inner.Insert(ctx, r); err != nil {
		return err
	}

	if _, err := c.store.Incr(ctx, UserReportsGenKey(r.UserID)); err != nil {
		c.log.WarnContext(ctx, "reports cache invalidation failed", "err", err)
	}
	return nil
}

func (c *CachedReports) ListForUser(ctx context.Context, userID string, limit int) ([]report.Report, error) {
	if limit <= 0 {
		limit = report.DefaultListLimit
	}
	if limit != report.DefaultListLimit {
		return c.inner.ListForUser(ctx, userID, limit)
	}

	gen, err := c.generation(ctx, userID)
	if err != nil {
		// without a generation there is no safe key to read or write
		c.prom.IncCacheLookup("error")
		c.log.WarnContext(ctx, "reports cache generation read failed", "err", err)
		return c.inner.ListForUser(ctx, userID, limit)
	}
	key := UserReportsKey(userID, gen)

	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.prom.IncCacheLookup("error")
		c.log.WarnContext(ctx, "reports cache read failed", "err", err)
	case ok:
		var cached []report.Report
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			c.prom.IncCacheLookup("hit")
			return cached, nil
		}
		c.prom.IncCacheLookup("error")
		_ = c.store.Delete(ctx, key)
	default:
		c.prom.IncCacheLookup("miss")
	}

	reports, err := c.inner.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(reports); err == nil {
		if err := c.store.Set(ctx, key, b); err != nil {
			c.log.WarnContext(ctx, "reports cache write failed", "err", err)
		}
	}

	return reports, nil
}

// generation reads the user's current generation. A missing counter is
// generation zero.
func (c *CachedReports) generation(ctx context.Context, userID string) (int64, error) {
	raw, ok, err := c.store.Get(ctx, UserReportsGenKey(userID))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
