package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/arogyamitra/internal/domain/report"
	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	reports ReportStore
}

func NewReportsHandler(reports ReportStore) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// reportResponse is a report as the browser client reads it.
type reportResponse struct {
	ReportID             string         `json:"report_id"`
	UserID               string         `json:"user_id"`
	Symptoms             string         `json:"symptoms"`
	Age                  *int           `json:"age"`
	Gender               *string        `json:"gender"`
	AdditionalInfo       *string        `json:"additional_info"`
	PreliminaryDiagnosis string         `json:"preliminary_diagnosis"`
	UrgencyLevel         report.Urgency `json:"urgency_level"`
	CreatedAt            string         `json:"created_at"`
	IsActive             bool           `json:"is_active"`
}

func toReportResponse(r report.Report) reportResponse {
	return reportResponse{
		ReportID:             r.ID,
		UserID:               r.UserID,
		Symptoms:             r.Symptoms,
		Age:                  r.Age,
		Gender:               r.Gender,
		AdditionalInfo:       r.AdditionalInfo,
		PreliminaryDiagnosis: r.PreliminaryDiagnosis,
		UrgencyLevel:         r.UrgencyLevel,
		CreatedAt:            report.FormatTimestamp(r.CreatedAt),
		IsActive:             r.IsActive,
	}
}

// ListForUser returns the newest reports of a user. An unknown user simply
// has no reports.
func (h *ReportsHandler) ListForUser(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("user_id"))
	if userID == "" {
		RespondBadRequest(ctx, "invalid_id", "user_id is required", nil)
		return
	}

	if !ensureActingUser(ctx, userID) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.reports.ListForUser(cctx, userID, report.DefaultListLimit)
	if err != nil {
		slog.Default().ErrorContext(cctx, "reports.list_failed", "err", err)
		RespondInternal(ctx, "Could not load reports")
		return
	}

	out := make([]reportResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toReportResponse(r))
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"success": true,
		"reports": out,
		"count":   len(out),
	})
}
