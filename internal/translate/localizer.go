package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medmind/internal/lang"
	"medmind/internal/oracle"
	"medmind/internal/triage"
)

// Localizer translates user-visible text into the patient's chosen language.
// Every failure degrades: primary translator, then an oracle translation
// prompt, then the original English text. It never returns an error.
type Localizer struct {
	translator Translator
	gen        oracle.Generator
	onFallback func(stage string)
	onLatency  func(d time.Duration)
}

func NewLocalizer(translator Translator, gen oracle.Generator) *Localizer {
	return &Localizer{translator: translator, gen: gen}
}

// SetFallbackHook registers an observer called with "oracle" or "untranslated"
// whenever a degradation path is taken.
func (l *Localizer) SetFallbackHook(hook func(stage string)) {
	l.onFallback = hook
}

// SetLatencyHook registers an observer for the duration of each translation.
// The English identity path is not timed.
func (l *Localizer) SetLatencyHook(hook func(d time.Duration)) {
	l.onLatency = hook
}

// Localize renders text in the named language. English is the identity.
// An embedded CATEGORY:<id> tag is excised before translation and reattached
// verbatim afterward; translating the tag would break state recovery.
func (l *Localizer) Localize(ctx context.Context, text, language string) string {
	target := lang.CodeFor(language)
	if target == lang.Default {
		return text
	}

	visible, tag := SplitCategoryTag(text)
	start := time.Now()
	translated := l.translateVisible(ctx, visible, language, target)
	if l.onLatency != nil {
		l.onLatency(time.Since(start))
	}
	if tag == "" {
		return translated
	}
	return translated + "\n\n" + tag
}

func (l *Localizer) translateVisible(ctx context.Context, text, language string, target lang.Code) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if l.translator != nil {
		out, err := l.translator.Translate(ctx, text, lang.Default, target)
		if err == nil {
			return out
		}
	}
	l.fallback("oracle")

	if l.gen != nil {
		prompt := fmt.Sprintf("Translate this medical text to %s: %s\n\nProvide only the translation:", language, text)
		out, err := l.gen.Generate(ctx, prompt)
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
	}
	l.fallback("untranslated")
	return text
}

func (l *Localizer) fallback(stage string) {
	if l.onFallback != nil {
		l.onFallback(stage)
	}
}

// SplitCategoryTag separates the human-visible part of an assistant message
// from its trailing CATEGORY:<id> tag, if present. The tag is returned whole,
// including its prefix.
func SplitCategoryTag(text string) (visible, tag string) {
	idx := strings.Index(text, triage.CategoryTagPrefix)
	if idx < 0 {
		return text, ""
	}
	tag = text[idx:]
	if nl := strings.IndexByte(tag, '\n'); nl >= 0 {
		tag = tag[:nl]
	}
	visible = strings.TrimRight(text[:idx], "\n ")
	return visible, tag
}
