package lang

import "strings"

// Code is an ISO 639-1 language code used by the translation service.
type Code string

// Default is the language the assistant thinks and the catalog is written in.
const Default Code = "en"

// supported maps the language names accepted on the chat interface to
// translation-service codes.
var supported = map[string]Code{
	"English":   "en",
	"Hindi":     "hi",
	"Bengali":   "bn",
	"Telugu":    "te",
	"Tamil":     "ta",
	"Marathi":   "mr",
	"Gujarati":  "gu",
	"Kannada":   "kn",
	"Malayalam": "ml",
	"Punjabi":   "pa",
	"Odia":      "or",
	"Assamese":  "as",
}

// CodeFor resolves a language name to its code. Unknown names resolve to the
// default so a bad dropdown value never breaks a conversation.
func CodeFor(name string) Code {
	if c, ok := supported[strings.TrimSpace(name)]; ok {
		return c
	}
	return Default
}

// NameFor resolves a code back to its accepted language name. Unknown codes
// resolve to English.
func NameFor(code Code) string {
	for name, c := range supported {
		if c == code {
			return name
		}
	}
	return "English"
}

// IsSupported reports whether name is one of the accepted language names.
func IsSupported(name string) bool {
	_, ok := supported[strings.TrimSpace(name)]
	return ok
}

// Names returns the accepted language names in no particular order.
func Names() []string {
	out := make([]string, 0, len(supported))
	for name := range supported {
		out = append(out, name)
	}
	return out
}
