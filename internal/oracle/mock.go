package oracle

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator produces deterministic local replies when no real oracle is
// configured. It understands the three prompt shapes the service sends and
// answers each plausibly, which keeps local development and tests usable
// end to end.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	switch {
	case strings.Contains(prompt, "SYMPTOM_CATEGORY:"):
		return mockClassification(prompt), nil
	case strings.Contains(prompt, "Top 3 Possible Conditions"):
		return mockDiagnosis(), nil
	case strings.HasPrefix(prompt, "Translate this medical text"):
		return mockTranslation(prompt), nil
	default:
		return "I am listening.", nil
	}
}

// mockClassification matches the quoted complaint against the category list
// embedded in the prompt, preferring longer (more specific) ids.
func mockClassification(prompt string) string {
	complaint := quotedSegment(prompt)
	lower := strings.ToLower(complaint)

	best := ""
	for _, id := range promptCategoryIDs(prompt) {
		phrase := strings.ReplaceAll(id, "_", " ")
		if strings.Contains(lower, phrase) && len(id) > len(best) {
			best = id
		}
	}
	if best == "" {
		return fmt.Sprintf("TRANSLATION: %s\nSYMPTOM_CATEGORY: unknown\nCONFIDENCE: 3", complaint)
	}
	return fmt.Sprintf("TRANSLATION: %s\nSYMPTOM_CATEGORY: %s\nCONFIDENCE: 8", complaint, best)
}

func mockDiagnosis() string {
	return strings.Join([]string{
		"🔍 **Top 3 Possible Conditions:**",
		"1. Common benign condition - 55% likelihood",
		"2. Mild viral illness - 30% likelihood",
		"3. Stress-related symptoms - 15% likelihood",
		"",
		"⚠️ **Severity Assessment:** Low",
		"",
		"📋 **Recommended Next Steps:**",
		"• Monitor your symptoms for the next 48 hours",
		"• See a doctor if anything worsens",
		"",
		"💡 **Self-Care Tips:**",
		"• Rest and stay hydrated",
		"• Avoid known triggers",
	}, "\n")
}

func mockTranslation(prompt string) string {
	// "Translate this medical text to <lang>: <text>\n\nProvide only the translation:"
	_, rest, ok := strings.Cut(prompt, ": ")
	if !ok {
		return prompt
	}
	if idx := strings.Index(rest, "\n\nProvide only"); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}

func quotedSegment(prompt string) string {
	start := strings.IndexByte(prompt, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(prompt[start+1:], '"')
	if end < 0 {
		return ""
	}
	return prompt[start+1 : start+1+end]
}

func promptCategoryIDs(prompt string) []string {
	_, list, ok := strings.Cut(prompt, "one of: ")
	if !ok {
		return nil
	}
	if idx := strings.IndexByte(list, ']'); idx >= 0 {
		list = list[:idx]
	}
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
