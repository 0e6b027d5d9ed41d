package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestBuildPromptEmbedsFields(t *testing.T) {
	got := BuildPrompt(PromptInput{
		Symptoms:       "fever and cough",
		Age:            intPtr(30),
		Gender:         strPtr("male"),
		AdditionalInfo: strPtr("three days"),
	})

	assert.Contains(t, got, "- Age: 30\n")
	assert.Contains(t, got, "- Gender: male\n")
	assert.Contains(t, got, "- Symptoms: fever and cough\n")
	assert.Contains(t, got, "- Additional Information: three days\n")
}

func TestBuildPromptDefaultsForMissingFields(t *testing.T) {
	got := BuildPrompt(PromptInput{Symptoms: "headache"})

	assert.Contains(t, got, "- Age: Not specified\n")
	assert.Contains(t, got, "- Gender: Not specified\n")
	assert.Contains(t, got, "- Additional Information: None\n")

	// empty values count as missing
	got = BuildPrompt(PromptInput{Symptoms: "headache", Age: intPtr(0), Gender: strPtr(""), AdditionalInfo: strPtr("")})
	assert.Contains(t, got, "- Age: Not specified\n")
	assert.Contains(t, got, "- Gender: Not specified\n")
	assert.Contains(t, got, "- Additional Information: None\n")
}

func TestBuildPromptRequestsAllSections(t *testing.T) {
	got := BuildPrompt(PromptInput{Symptoms: "rash"})

	for _, header := range []string{
		"PRELIMINARY DIAGNOSIS",
		"URGENCY LEVEL",
		"IMMEDIATE RECOMMENDATIONS",
		"WHEN TO SEEK CARE",
		"GENERAL CARE TIPS",
	} {
		assert.Contains(t, got, header)
	}

	assert.Contains(t, got, "professional medical consultation is recommended")
	assert.Contains(t, got, "Keep language simple")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	in := PromptInput{Symptoms: "sore throat", Age: intPtr(8)}
	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
}

func TestBuildPromptDoesNotExpandPlaceholdersInInput(t *testing.T) {
	got := BuildPrompt(PromptInput{Symptoms: "{{age}} literally"})
	assert.True(t, strings.Contains(got, "- Symptoms: {{age}} literally"))
}
