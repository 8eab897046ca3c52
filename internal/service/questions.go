package service

import "github.com/yourorg/hireloop/internal/scoring"

// Question describes one screening question rendered on the apply form.
// Only answers whose key appears in this catalog are persisted.
type Question struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Type        string   `json:"type"` // text, number, textarea, select
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Required    bool     `json:"required"`
}

// Option is one choice of a select question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ScreeningQuestions is the fixed question set. The scoring engine reads a
// subset of these keys; the rest are stored for recruiters to review.
var ScreeningQuestions = []Question{
	{
		Key:         scoring.KeyYearsExperience,
		Label:       "How many years of professional software development experience do you have?",
		Type:        "number",
		Placeholder: "e.g. 5",
		Required:    true,
	},
	{
		Key:         scoring.KeyReactExperience,
		Label:       "How many years of React/Next.js experience do you have?",
		Type:        "number",
		Placeholder: "e.g. 3",
		Required:    true,
	},
	{
		Key:         "currentRole",
		Label:       "What is your current role?",
		Type:        "text",
		Placeholder: "e.g. Senior Frontend Developer",
		Required:    true,
	},
	{
		Key:         scoring.KeySystemDesign,
		Label:       "Describe a system you designed or architected. What were the key challenges and how did you address them?",
		Type:        "textarea",
		Placeholder: "Provide details about your approach, trade-offs, and results...",
		Required:    true,
	},
	{
		Key:      scoring.KeyAvailability,
		Label:    "When are you available to start?",
		Type:     "select",
		Required: true,
		Options: []Option{
			{Value: "immediate", Label: "Immediately"},
			{Value: "2weeks", Label: "Within 2 weeks"},
			{Value: "1month", Label: "Within 1 month"},
			{Value: "2months", Label: "Within 2 months"},
			{Value: "3months", Label: "3+ months"},
		},
	},
	{
		Key:      scoring.KeyNoticePeriod,
		Label:    "What is your current notice period?",
		Type:     "select",
		Required: true,
		Options: []Option{
			{Value: "none", Label: "No notice period / Immediately"},
			{Value: "1week", Label: "1 week"},
			{Value: "2weeks", Label: "2 weeks"},
			{Value: "1month", Label: "1 month"},
			{Value: "2months", Label: "2 months"},
			{Value: "3months", Label: "3+ months"},
		},
	},
	{
		Key:      "preferredWork",
		Label:    "What is your preferred work arrangement?",
		Type:     "select",
		Required: true,
		Options: []Option{
			{Value: "remote", Label: "Fully remote"},
			{Value: "hybrid", Label: "Hybrid"},
			{Value: "onsite", Label: "On-site"},
		},
	},
	{
		Key:         "salaryExpectation",
		Label:       "What are your salary expectations (annual, USD)?",
		Type:        "text",
		Placeholder: "e.g. $120,000 - $150,000",
		Required:    false,
	},
}

// questionKeys returns the catalog keys in form order.
func questionKeys() []string {
	keys := make([]string, len(ScreeningQuestions))
	for i, q := range ScreeningQuestions {
		keys[i] = q.Key
	}
	return keys
}
