package triage

import (
	"context"
	"fmt"
	"strings"

	"medmind/internal/oracle"
)

const diagnosisPromptFmt = `Based on medical assessment:
Patient: %dyr %s
Category: %s
Responses: %s

Provide diagnosis in EXACT format:

🔍 **Top 3 Possible Conditions:**
1. [Condition] - [X]%% likelihood
2. [Condition] - [X]%% likelihood
3. [Condition] - [X]%% likelihood

⚠️ **Severity Assessment:** [Low/Medium/High/Emergency]

📋 **Recommended Next Steps:**
• [Action 1]
• [Action 2]

💡 **Self-Care Tips:**
• [Tip 1]
• [Tip 2]

Use realistic percentages. Be specific with condition names.`

// SynthesizeDiagnosis turns the collected responses into the final diagnosis
// summary. On oracle failure it falls back to a deterministic template so the
// caller always receives a non-empty, well-formed result.
func SynthesizeDiagnosis(ctx context.Context, gen oracle.Generator, responses []string, category Category, age int, gender string) string {
	prompt := fmt.Sprintf(diagnosisPromptFmt, age, gender, category.ID, strings.Join(responses, " | "))

	text, err := gen.Generate(ctx, prompt)
	if err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return fallbackDiagnosis(category)
}

func fallbackDiagnosis(category Category) string {
	name := category.DisplayName()
	return fmt.Sprintf(`🔍 **Top 3 Possible Conditions:**
1. Common %s condition - 60%% likelihood
2. Moderate related disorder - 25%% likelihood
3. Less common alternative - 15%% likelihood

⚠️ **Severity Assessment:** Medium

📋 **Recommended Next Steps:**
• Monitor symptoms and track changes
• Consult healthcare provider if symptoms persist

💡 **Self-Care Tips:**
• Rest and maintain good hydration
• Avoid known triggers

⚠️ This is not professional medical advice. Consult a doctor for proper diagnosis and treatment.`, name)
}
