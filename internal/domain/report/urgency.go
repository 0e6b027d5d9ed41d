package report

import "errors"

// Urgency is the coarse label derived from generated text. It is a keyword
// heuristic, not a clinical triage score.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

var ErrInvalidUrgency = errors.New("invalid urgency level")

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}
