package report

import (
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit is how many reports a user listing returns.
const DefaultListLimit = 10

// Report is an immutable diagnosis record. The owner id is not required to
// reference a registered user.
type Report struct {
	ID                   string    `json:"report_id"`
	UserID               string    `json:"user_id"`
	Symptoms             string    `json:"symptoms"`
	Age                  *int      `json:"age"`
	Gender               *string   `json:"gender"`
	AdditionalInfo       *string   `json:"additional_info"`
	PreliminaryDiagnosis string    `json:"preliminary_diagnosis"`
	UrgencyLevel         Urgency   `json:"urgency_level"`
	CreatedAt            time.Time `json:"created_at"`
	IsActive             bool      `json:"is_active"`
}

type AssessRequest struct {
	UserID         string  `json:"user_id" binding:"required,max=64"`
	Symptoms       string  `json:"symptoms" binding:"required,max=4000"`
	Age            *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Gender         *string `json:"gender" binding:"omitempty,max=32"`
	AdditionalInfo *string `json:"additional_info" binding:"omitempty,max=4000"`
}

func NewFromAssessment(req AssessRequest, diagnosis string, urgency Urgency) Report {
	return Report{
		ID:                   uuid.NewString(),
		UserID:               req.UserID,
		Symptoms:             req.Symptoms,
		Age:                  req.Age,
		Gender:               req.Gender,
		AdditionalInfo:       req.AdditionalInfo,
		PreliminaryDiagnosis: diagnosis,
		UrgencyLevel:         urgency,
		CreatedAt:            time.Now().UTC(),
		IsActive:             true,
	}
}

// FormatTimestamp renders t the way the browser client expects (ISO-8601, UTC, millis).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
