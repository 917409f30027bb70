package triage

import (
	"context"
	"fmt"
	"strings"

	"medmind/internal/lang"
	"medmind/internal/oracle"
	"medmind/internal/policy"
)

// Outcome labels what kind of reply a turn produced.
type Outcome string

const (
	OutcomePrompt       Outcome = "prompt"
	OutcomeGreeting     Outcome = "greeting"
	OutcomeRejected     Outcome = "rejected"
	OutcomeAcknowledged Outcome = "acknowledged"
	OutcomeClarify      Outcome = "clarify"
	OutcomeQuestion     Outcome = "question"
	OutcomeDiagnosis    Outcome = "diagnosis"
	OutcomeFallback     Outcome = "fallback"
)

// Localizer renders assistant text in the patient's language. Implementations
// must never fail; they degrade to the original text instead.
type Localizer interface {
	Localize(ctx context.Context, text, language string) string
}

// Request is one chat turn. History holds all prior turns of the
// conversation. State carries explicit session state when the caller has a
// session; when nil the engine derives state by transcript replay.
type Request struct {
	Message     string
	History     []Turn
	State       *ConversationState
	PatientName string
	Age         int
	Gender      string
	Language    string
}

// Reply is the engine's answer for one turn. Text is localized and ready to
// show. Diagnosis holds the untranslated diagnosis when Outcome is
// OutcomeDiagnosis, for snapshot storage. State is the updated conversation
// state for session write-back.
type Reply struct {
	Text      string
	Outcome   Outcome
	Diagnosis string
	State     ConversationState
}

// Engine is the turn-by-turn triage decision core. It is stateless; all
// conversation state arrives in the request and leaves in the reply.
type Engine struct {
	catalog             *Catalog
	gen                 oracle.Generator
	localizer           Localizer
	confidenceThreshold int
	classifyAttempts    int
}

// NewEngine wires the decision core. threshold is the minimum classification
// confidence to accept a category; attemptLimit bounds how many turns may
// invoke classification for one conversation (1 reproduces the legacy
// classify-once behavior).
func NewEngine(catalog *Catalog, gen oracle.Generator, localizer Localizer, threshold, attemptLimit int) *Engine {
	if threshold <= 0 {
		threshold = 6
	}
	if attemptLimit <= 0 {
		attemptLimit = 1
	}
	return &Engine{
		catalog:             catalog,
		gen:                 gen,
		localizer:           localizer,
		confidenceThreshold: threshold,
		classifyAttempts:    attemptLimit,
	}
}

// Respond evaluates one turn. It never fails: every oracle or translation
// problem degrades to a usable localized reply.
func (e *Engine) Respond(ctx context.Context, req Request) Reply {
	message := strings.TrimSpace(req.Message)

	if message == "" {
		return e.terminal(ctx, req, OutcomePrompt, msgPromptForSymptom)
	}
	if lang.IsGreeting(message) {
		return e.terminal(ctx, req, OutcomeGreeting, msgGreeting)
	}

	st := req.State
	if st == nil {
		derived := DeriveState(e.catalog, req.History)
		st = &derived
	}

	if !lang.IsValidUtterance(message) && st.ActiveCategory == nil && st.QuestionsAsked == 0 {
		return e.terminal(ctx, req, OutcomeRejected, msgRejectInput)
	}

	if st.ActiveCategory == nil && st.ClassifyAttempts < e.classifyAttempts {
		return e.classify(ctx, req, *st, message)
	}

	if st.ActiveCategory != nil && st.QuestionsAsked < QuestionsPerCategory {
		return e.askNext(ctx, req, *st)
	}

	if st.ActiveCategory != nil && st.QuestionsAsked >= QuestionsPerCategory {
		return e.diagnose(ctx, req, *st, message)
	}

	// No category will ever resolve for this conversation.
	reply := e.terminal(ctx, req, OutcomeFallback, msgFallback)
	reply.State = *st
	return reply
}

func (e *Engine) classify(ctx context.Context, req Request, st ConversationState, message string) Reply {
	// Only a redacted copy of the complaint is sent off-process.
	redacted, _ := policy.RedactPII(message)
	res := ResolveCategory(ctx, e.gen, e.catalog, redacted)

	st.ClassifyAttempts++
	st.HasAcknowledged = true

	if res.Category != nil && res.Confidence >= e.confidenceThreshold {
		st.ActiveCategory = res.Category

		visible := fmt.Sprintf(ackBodyFmt, message)
		localized := e.localizer.Localize(ctx, visible, req.Language)
		// The tag is appended after localization and is never translated.
		return Reply{
			Text:    localized + "\n\n" + CategoryTagPrefix + res.Category.ID,
			Outcome: OutcomeAcknowledged,
			State:   st,
		}
	}

	return Reply{
		Text:    e.localizer.Localize(ctx, msgClarify, req.Language),
		Outcome: OutcomeClarify,
		State:   st,
	}
}

func (e *Engine) askNext(ctx context.Context, req Request, st ConversationState) Reply {
	idx := st.QuestionsAsked
	if idx < 0 || idx >= QuestionsPerCategory {
		// Unreachable via Respond; guarded because a bad index here would panic.
		return Reply{
			Text:    e.localizer.Localize(ctx, msgFallback, req.Language),
			Outcome: OutcomeFallback,
			State:   st,
		}
	}

	question := st.ActiveCategory.Questions[idx]
	st.QuestionsAsked++
	return Reply{
		Text:    e.localizer.Localize(ctx, question, req.Language),
		Outcome: OutcomeQuestion,
		State:   st,
	}
}

func (e *Engine) diagnose(ctx context.Context, req Request, st ConversationState, message string) Reply {
	responses := CollectUserUtterances(req.History, message)
	for i, r := range responses {
		responses[i], _ = policy.RedactPII(r)
	}

	diagnosis := SynthesizeDiagnosis(ctx, e.gen, responses, *st.ActiveCategory, req.Age, req.Gender)
	return Reply{
		Text:      e.localizer.Localize(ctx, diagnosis, req.Language),
		Outcome:   OutcomeDiagnosis,
		Diagnosis: diagnosis,
		State:     st,
	}
}

func (e *Engine) terminal(ctx context.Context, req Request, outcome Outcome, text string) Reply {
	reply := Reply{
		Text:    e.localizer.Localize(ctx, text, req.Language),
		Outcome: outcome,
	}
	if req.State != nil {
		reply.State = *req.State
	}
	return reply
}
