package triage

import (
	"regexp"

	"github.com/geocoder89/arogyamitra/internal/domain/report"
)

// Keyword heuristic over free model output. Order matters: the high rule
// is checked before the low one. Matches are case-insensitive substrings,
// so "slower" counts as LOW.
var (
	highUrgencyPattern = regexp.MustCompile(`(?i)EMERGENCY|URGENT`)
	lowUrgencyPattern  = regexp.MustCompile(`(?i)LOW`)
)

// ClassifyUrgency maps assessment text to Low, Medium or High.
func ClassifyUrgency(text string) report.Urgency {
	switch {
	case highUrgencyPattern.MatchString(text):
		return report.UrgencyHigh
	case lowUrgencyPattern.MatchString(text):
		return report.UrgencyLow
	default:
		return report.UrgencyMedium
	}
}
