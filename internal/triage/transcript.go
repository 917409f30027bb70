package triage

import "strings"

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one exchange half in a conversation transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Marker strings the assistant embeds in administrative turns. The inspector
// keys off them, so changing any of these breaks state recovery for
// conversations already in flight.
const (
	greetingBanner = "Smart Symptom Checker"
	ackPhrase      = "I understand you're experiencing"
	diagnosisMark  = "🔍"
	// CategoryTagPrefix prefixes the machine-readable category tag inside the
	// acknowledgment turn. The tag is never localized.
	CategoryTagPrefix = "CATEGORY:"
)

// ConversationState is the engine's working state for one conversation.
// Session-backed callers carry it between turns; transcript-only callers
// rebuild it with DeriveState.
type ConversationState struct {
	QuestionsAsked   int
	HasAcknowledged  bool
	ActiveCategory   *Category
	ClassifyAttempts int
}

// DeriveState rebuilds conversation state by re-scanning the transcript.
// Classification attempts cannot be recovered from text, so replay-derived
// state counts one attempt whenever an acknowledgment is present.
func DeriveState(catalog *Catalog, history []Turn) ConversationState {
	st := ConversationState{
		QuestionsAsked:  CountAssistantQuestions(history),
		HasAcknowledged: HasAcknowledgment(history),
	}
	if cat, ok := ExtractActiveCategory(catalog, history); ok {
		st.ActiveCategory = &cat
	}
	if st.HasAcknowledged {
		st.ClassifyAttempts = 1
	}
	return st
}

// CountAssistantQuestions counts assistant turns that read as scripted
// questions: they contain a question mark and none of the administrative
// markers. The state machine caps the effective value at five; this count is
// not clamped here.
func CountAssistantQuestions(history []Turn) int {
	count := 0
	for _, turn := range history {
		if turn.Role != RoleAssistant {
			continue
		}
		if !strings.Contains(turn.Text, "?") {
			continue
		}
		if strings.Contains(turn.Text, greetingBanner) ||
			strings.Contains(turn.Text, ackPhrase) ||
			strings.Contains(turn.Text, diagnosisMark) ||
			strings.Contains(turn.Text, CategoryTagPrefix) {
			continue
		}
		count++
	}
	return count
}

// HasAcknowledgment reports whether any assistant turn carries the fixed
// acknowledgment phrase.
func HasAcknowledgment(history []Turn) bool {
	for _, turn := range history {
		if turn.Role == RoleAssistant && strings.Contains(turn.Text, ackPhrase) {
			return true
		}
	}
	return false
}

// ExtractActiveCategory scans assistant turns for an embedded CATEGORY:<id>
// tag and returns the first one that names a known category.
func ExtractActiveCategory(catalog *Catalog, history []Turn) (Category, bool) {
	for _, turn := range history {
		if turn.Role != RoleAssistant {
			continue
		}
		idx := strings.Index(turn.Text, CategoryTagPrefix)
		if idx < 0 {
			continue
		}
		id := turn.Text[idx+len(CategoryTagPrefix):]
		if nl := strings.IndexByte(id, '\n'); nl >= 0 {
			id = id[:nl]
		}
		if cat, ok := catalog.Lookup(id); ok {
			return cat, true
		}
	}
	return Category{}, false
}

// CollectUserUtterances returns every prior user turn's text in order,
// followed by the current message.
func CollectUserUtterances(history []Turn, current string) []string {
	out := make([]string, 0, len(history)/2+1)
	for _, turn := range history {
		if turn.Role == RoleUser && turn.Text != "" {
			out = append(out, turn.Text)
		}
	}
	return append(out, current)
}
