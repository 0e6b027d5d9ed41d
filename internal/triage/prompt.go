package triage

import (
	"strconv"
	"strings"
)

const (
	notSpecified = "Not specified"
	noneGiven    = "None"
)

const promptTemplate = `
You are an AI medical assistant helping rural healthcare access. Please provide a preliminary assessment based on the following information:

Patient Information:
- Age: {{age}}
- Gender: {{gender}}
- Symptoms: {{symptoms}}
- Additional Information: {{additional_info}}

Please provide a structured response with:
1. PRELIMINARY DIAGNOSIS: List possible conditions (disclaimer: not a substitute for professional medical advice)
2. URGENCY LEVEL: Low/Medium/High/Emergency
3. IMMEDIATE RECOMMENDATIONS: What the patient should do immediately
4. WHEN TO SEEK CARE: When to visit a healthcare facility
5. GENERAL CARE TIPS: Home care suggestions if appropriate

Important: Always emphasize this is preliminary guidance and professional medical consultation is recommended.
Keep language simple and accessible for rural communities.
`

// PromptInput is the structured symptom description a prompt is built from.
type PromptInput struct {
	Symptoms       string
	Age            *int
	Gender         *string
	AdditionalInfo *string
}

// BuildPrompt renders the fixed assessment template. Missing, zero or empty
// optional fields render as "Not specified" (age, gender) or "None"
// (additional info).
func BuildPrompt(in PromptInput) string {
	age := notSpecified
	if in.Age != nil && *in.Age != 0 {
		age = strconv.Itoa(*in.Age)
	}

	r := strings.NewReplacer(
		"{{age}}", age,
		"{{gender}}", orDefault(in.Gender, notSpecified),
		"{{symptoms}}", in.Symptoms,
		"{{additional_info}}", orDefault(in.AdditionalInfo, noneGiven),
	)

	return r.Replace(promptTemplate)
}

func orDefault(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
