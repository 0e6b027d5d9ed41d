package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/arogyamitra/internal/domain/report"
)

type ReportsRepo struct {
	mu    sync.RWMutex
	items []report.Report
}

func NewReportsRepo() *ReportsRepo {
	return &ReportsRepo{}
}

func (r *ReportsRepo) Insert(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	r.items = append(r.items, rep)
	r.mu.Unlock()

	return nil
}

// ListForUser returns the active reports owned by userID, newest first,
// at most limit of them. The returned slice is fresh on every call.
func (r *ReportsRepo) ListForUser(_ context.Context, userID string, limit int) ([]report.Report, error) {
	if limit <= 0 {
		limit = report.DefaultListLimit
	}

	r.mu.RLock()
	out := make([]report.Report, 0)
	// walk backwards so equal timestamps keep the later insert first
	for i := len(r.items) - 1; i >= 0; i-- {
		rep := r.items[i]
		if rep.UserID == userID && rep.IsActive {
			out = append(out, rep)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
