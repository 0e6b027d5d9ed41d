package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/arogyamitra/internal/actorctx"
	"github.com/geocoder89/arogyamitra/internal/domain/report"
	"github.com/geocoder89/arogyamitra/internal/http/middlewares"
	"github.com/geocoder89/arogyamitra/internal/observability"
	"github.com/geocoder89/arogyamitra/internal/triage"
	"github.com/gin-gonic/gin"
)

// Recommendations are the same for every assessment.
var Recommendations = []string{
	"Follow the guidance provided above",
	"Consult with a healthcare professional for proper diagnosis",
	"Keep monitoring your symptoms",
}

// Diagnoser never fails: on any upstream problem it returns a fallback text.
type Diagnoser interface {
	Diagnose(ctx context.Context, prompt string) string
}

type ReportStore interface {
	Insert(ctx context.Context, r report.Report) error
	ListForUser(ctx context.Context, userID string, limit int) ([]report.Report, error)
}

// UserChecker backs the optional report owner validation.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type AssessmentHandler struct {
	diagnoser Diagnoser
	reports   ReportStore
	owners    UserChecker
	prom      *observability.Prom
}

// NewAssessmentHandler builds the handler. owners may be nil, in which case
// any user_id is accepted.
func NewAssessmentHandler(diagnoser Diagnoser, reports ReportStore, owners UserChecker, prom *observability.Prom) *AssessmentHandler {
	return &AssessmentHandler{
		diagnoser: diagnoser,
		reports:   reports,
		owners:    owners,
		prom:      prom,
	}
}

func (h *AssessmentHandler) Assess(ctx *gin.Context) {
	var req report.AssessRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if !ensureActingUser(ctx, req.UserID) {
		return
	}

	reqCtx := actorctx.WithUserID(ctx.Request.Context(), req.UserID)

	if h.owners != nil {
		cctx, cancel := context.WithTimeout(reqCtx, 2*time.Second)
		ok, err := h.owners.Exists(cctx, req.UserID)
		cancel()

		if err != nil {
			slog.Default().ErrorContext(reqCtx, "assessment.owner_lookup_failed", "err", err)
			RespondInternal(ctx, "Could not verify user")
			return
		}
		if !ok {
			RespondNotFound(ctx, "User not found")
			return
		}
	}

	prompt := triage.BuildPrompt(triage.PromptInput{
		Symptoms:       req.Symptoms,
		Age:            req.Age,
		Gender:         req.Gender,
		AdditionalInfo: req.AdditionalInfo,
	})

	// the diagnosis client bounds its own wait
	diagnosis := h.diagnoser.Diagnose(reqCtx, prompt)
	urgency := triage.ClassifyUrgency(diagnosis)

	r := report.NewFromAssessment(req, diagnosis, urgency)

	cctx, cancel := context.WithTimeout(reqCtx, 3*time.Second)
	defer cancel()

	if err := h.reports.Insert(cctx, r); err != nil {
		slog.Default().ErrorContext(cctx, "assessment.store_failed", "err", err, "report_id", r.ID)
		RespondInternal(ctx, "Could not save assessment")
		return
	}

	h.prom.IncUrgency(string(urgency))

	slog.Default().InfoContext(cctx, "assessment.created",
		"report_id", r.ID,
		"urgency", string(urgency),
	)

	ctx.JSON(http.StatusOK, gin.H{
		"success":               true,
		"report_id":             r.ID,
		"preliminary_diagnosis": r.PreliminaryDiagnosis,
		"urgency_level":         r.UrgencyLevel,
		"recommendations":       Recommendations,
		"created_at":            report.FormatTimestamp(r.CreatedAt),
	})
}

// ensureActingUser rejects a bearer token issued to someone other than
// userID. Anonymous callers pass.
func ensureActingUser(ctx *gin.Context, userID string) bool {
	authID, ok := middlewares.UserIDFromContext(ctx)
	if !ok || authID == userID {
		return true
	}

	RespondForbidden(ctx, "Token does not belong to this user")
	return false
}
