package lang

import (
	"strings"
	"unicode/utf8"
)

const greetingMaxLen = 35

// greetingTokens covers short salutations across the supported languages.
var greetingTokens = []string{
	"hi", "hello", "hey", "hii", "good morning", "good evening",
	"namaste", "नमस्ते", "హలో", "വണക്കം", "নমস্কার", "નમસ્તે",
}

// placeholderDenylist lists throwaway inputs that carry no symptom signal.
var placeholderDenylist = map[string]struct{}{
	"test": {}, "testing": {}, "123": {}, "abc": {}, "xyz": {},
	".": {}, "..": {}, "???": {}, "demo": {},
}

// IsGreeting reports whether the message is a short salutation rather than a
// symptom description. The length cap counts characters, not bytes; Indic
// scripts run several bytes per rune.
func IsGreeting(message string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(message)) >= greetingMaxLen {
		return false
	}
	lower := strings.ToLower(message)
	for _, tok := range greetingTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// IsValidUtterance rejects only empty input and exact placeholder tokens.
// The filter is deliberately permissive: rejecting a real complaint is worse
// than letting a junk one through.
func IsValidUtterance(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return false
	}
	_, denied := placeholderDenylist[strings.ToLower(trimmed)]
	return !denied
}
