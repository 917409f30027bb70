package triage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"medmind/internal/oracle"
)

// Resolution is the outcome of one classification attempt. Category is nil
// when the oracle failed or returned an id outside the closed set; the
// confidence is still whatever the oracle reported.
type Resolution struct {
	Translation string
	Category    *Category
	Confidence  int
}

const classifyPromptFmt = `You are a medical AI assistant. Analyze: "%s"

Provide:
TRANSLATION: [English translation if needed]
SYMPTOM_CATEGORY: [one of: %s]
CONFIDENCE: [1-10]

Choose the most specific category that matches.`

// ResolveCategory asks the generation oracle to classify a complaint against
// the closed category set. It never returns an error: any oracle failure
// degrades to a nil category at confidence zero so the state machine can fall
// back to its generic question path.
func ResolveCategory(ctx context.Context, gen oracle.Generator, catalog *Catalog, text string) Resolution {
	prompt := fmt.Sprintf(classifyPromptFmt, text, strings.Join(catalog.IDs(), ", "))

	raw, err := gen.Generate(ctx, prompt)
	if err != nil {
		return Resolution{Translation: text, Confidence: 0}
	}
	return parseResolution(catalog, text, raw)
}

func parseResolution(catalog *Catalog, original, raw string) Resolution {
	res := Resolution{}
	var categoryID string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TRANSLATION:"):
			res.Translation = strings.TrimSpace(strings.TrimPrefix(line, "TRANSLATION:"))
		case strings.HasPrefix(line, "SYMPTOM_CATEGORY:"):
			categoryID = strings.TrimSpace(strings.TrimPrefix(line, "SYMPTOM_CATEGORY:"))
		case strings.HasPrefix(line, "CONFIDENCE:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")))
			if err != nil {
				n = 5
			}
			res.Confidence = n
		}
	}
	if res.Translation == "" {
		res.Translation = original
	}
	if cat, ok := catalog.Lookup(categoryID); ok {
		res.Category = &cat
	}
	return res
}
