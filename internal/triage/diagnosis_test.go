package triage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSynthesizeDiagnosisUsesOracleReply(t *testing.T) {
	gen := scriptedGen{fn: func(prompt string) (string, error) {
		if !strings.Contains(prompt, "34yr female") {
			t.Fatalf("prompt missing patient context: %q", prompt)
		}
		if !strings.Contains(prompt, "two days | it throbs") {
			t.Fatalf("prompt missing joined responses: %q", prompt)
		}
		return "🔍 **Top 3 Possible Conditions:**\n1. Tension headache - 70% likelihood", nil
	}}

	got := SynthesizeDiagnosis(context.Background(), gen,
		[]string{"two days", "it throbs"},
		Category{ID: "headache"}, 34, "female")
	if !strings.Contains(got, "Tension headache") {
		t.Fatalf("diagnosis = %q, want oracle reply", got)
	}
}

func TestSynthesizeDiagnosisFallbackOnFailure(t *testing.T) {
	gen := scriptedGen{fn: func(string) (string, error) {
		return "", errors.New("upstream down")
	}}

	got := SynthesizeDiagnosis(context.Background(), gen, []string{"a"}, Category{ID: "stomach_pain"}, 40, "male")
	if !strings.Contains(got, "Common Stomach Pain condition - 60% likelihood") {
		t.Fatalf("fallback missing primary condition line:\n%s", got)
	}
	if !strings.Contains(got, "25% likelihood") || !strings.Contains(got, "15% likelihood") {
		t.Fatalf("fallback missing likelihood spread:\n%s", got)
	}
	if !strings.Contains(got, "Severity Assessment:** Medium") {
		t.Fatalf("fallback severity not Medium:\n%s", got)
	}
}

func TestSynthesizeDiagnosisFallbackOnBlankReply(t *testing.T) {
	gen := scriptedGen{fn: func(string) (string, error) { return "   \n", nil }}

	got := SynthesizeDiagnosis(context.Background(), gen, nil, Category{ID: "fever"}, 22, "female")
	if !strings.Contains(got, "Common Fever condition") {
		t.Fatalf("blank oracle reply did not fall back:\n%s", got)
	}
}

func TestFallbackDiagnosisNonEmptyForEveryCategory(t *testing.T) {
	c := mustCatalog(t)
	for _, id := range c.IDs() {
		cat, _ := c.Lookup(id)
		got := fallbackDiagnosis(cat)
		if strings.TrimSpace(got) == "" {
			t.Fatalf("fallbackDiagnosis(%q) is empty", id)
		}
		if !strings.Contains(got, "🔍") {
			t.Fatalf("fallbackDiagnosis(%q) missing diagnosis marker", id)
		}
	}
}
