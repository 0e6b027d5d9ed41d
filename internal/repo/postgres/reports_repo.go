package postgres

import (
	"context"
	"fmt"

	"github.com/geocoder89/arogyamitra/internal/domain/report"
	"github.com/geocoder89/arogyamitra/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReportsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReportsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReportsRepo {
	return &ReportsRepo{pool: pool, prom: prom}
}

// Insert rejects an unknown urgency before it reaches the column check.
func (repo *ReportsRepo) Insert(ctx context.Context, r report.Report) error {
	if !r.UrgencyLevel.IsValid() {
		return fmt.Errorf("%w: %q", report.ErrInvalidUrgency, r.UrgencyLevel)
	}

	return repo.prom.ObserveDB("reports.insert", func() error {
		_, err := repo.pool.Exec(ctx, `
		INSERT INTO diagnosis_reports
			(id, user_id, symptoms, age, gender, additional_info, preliminary_diagnosis, urgency_level, created_at, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, r.ID, r.UserID, r.Symptoms, r.Age, r.Gender, r.AdditionalInfo,
			r.PreliminaryDiagnosis, string(r.UrgencyLevel), r.CreatedAt, r.IsActive)
		return err
	})
}

func (repo *ReportsRepo) ListForUser(ctx context.Context, userID string, limit int) (reports []report.Report, err error) {
	if limit <= 0 {
		limit = report.DefaultListLimit
	}

	var rows pgx.Rows

	err = repo.prom.ObserveDB("reports.list_for_user", func() error {
		rows, err = repo.pool.Query(ctx,
			`
	SELECT id, user_id, symptoms, age, gender, additional_info, preliminary_diagnosis, urgency_level, created_at, is_active
	FROM diagnosis_reports
	WHERE user_id = $1 AND is_active
	ORDER BY created_at DESC, id DESC
	LIMIT $2
	`,
			userID, limit,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	reports = make([]report.Report, 0)

	for rows.Next() {
		var (
			r       report.Report
			urgency string
		)

		e := rows.Scan(&r.ID, &r.UserID, &r.Symptoms, &r.Age, &r.Gender, &r.AdditionalInfo,
			&r.PreliminaryDiagnosis, &urgency, &r.CreatedAt, &r.IsActive)

		if e != nil {
			err = e
			return
		}
		r.UrgencyLevel = report.Urgency(urgency)
		reports = append(reports, r)
	}

	if e := rows.Err(); e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("reports.list_for_user", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}
