package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"medmind/internal/lang"
	"medmind/internal/observability"
	"medmind/internal/session"
	"medmind/internal/snapshot"
	"medmind/internal/triage"
)

// chatRequest is one chat turn. When SessionID is set the server replays
// nothing: transcript and patient profile come from the session registry.
// Without a session id the caller supplies history and profile inline and the
// engine derives state from the transcript.
type chatRequest struct {
	SessionID   string        `json:"session_id,omitempty"`
	Message     string        `json:"message"`
	History     []triage.Turn `json:"history,omitempty"`
	PatientName string        `json:"patient_name,omitempty"`
	Age         int           `json:"age,omitempty"`
	Gender      string        `json:"gender,omitempty"`
	Language    string        `json:"language,omitempty"`
}

type chatResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Reply     string         `json:"reply"`
	Outcome   triage.Outcome `json:"outcome"`
}

type apiError struct {
	status  int
	code    string
	message string
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var (
		resp   chatResponse
		apiErr *apiError
	)
	if strings.TrimSpace(req.SessionID) != "" {
		resp, apiErr = s.sessionTurn(r.Context(), req.SessionID, req.Message)
	} else {
		resp = s.replayTurn(r.Context(), req)
	}
	if apiErr != nil {
		respondError(w, apiErr.status, apiErr.code, apiErr.message)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// sessionTurn runs one turn against registry-held state and writes the
// transcript and updated state back.
func (s *Server) sessionTurn(ctx context.Context, sessionID, message string) (chatResponse, *apiError) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return chatResponse{}, &apiError{http.StatusNotFound, "session_not_found", err.Error()}
	}
	if sess.Status != session.StatusActive {
		return chatResponse{}, &apiError{http.StatusConflict, "session_ended", "session is no longer active"}
	}

	state := sess.State
	reply := s.respond(ctx, triage.Request{
		Message:     message,
		History:     sess.Transcript,
		State:       &state,
		PatientName: sess.Profile.PatientName,
		Age:         sess.Profile.Age,
		Gender:      sess.Profile.Gender,
		Language:    sess.Profile.Language,
	})

	if err := s.sessions.RecordTurn(sessionID, message, reply.Text, reply.State); err != nil {
		return chatResponse{}, &apiError{http.StatusNotFound, "session_not_found", err.Error()}
	}

	if reply.Outcome == triage.OutcomeDiagnosis {
		transcript := append(append([]triage.Turn(nil), sess.Transcript...),
			triage.Turn{Role: triage.RoleUser, Text: message},
			triage.Turn{Role: triage.RoleAssistant, Text: reply.Text},
		)
		s.saveSnapshot(ctx, snapshot.Snapshot{
			SessionID:   sess.ID,
			PatientName: sess.Profile.PatientName,
			Age:         sess.Profile.Age,
			Gender:      sess.Profile.Gender,
			Language:    sess.Profile.Language,
			Transcript:  transcript,
			Diagnosis:   reply.Diagnosis,
		})
	}

	return chatResponse{SessionID: sess.ID, Reply: reply.Text, Outcome: reply.Outcome}, nil
}

// replayTurn serves clients that carry their own transcript. Completed
// assessments are stored under a fresh key so the report endpoint can find
// them by the returned session id or via the latest snapshot.
func (s *Server) replayTurn(ctx context.Context, req chatRequest) chatResponse {
	language := req.Language
	if strings.TrimSpace(language) == "" {
		// No declared language: guess from the script the patient writes in.
		language = lang.NameFor(lang.DetectScript(req.Message))
	}

	reply := s.respond(ctx, triage.Request{
		Message:     req.Message,
		History:     req.History,
		PatientName: req.PatientName,
		Age:         req.Age,
		Gender:      req.Gender,
		Language:    language,
	})

	resp := chatResponse{Reply: reply.Text, Outcome: reply.Outcome}
	if reply.Outcome == triage.OutcomeDiagnosis {
		key := uuid.NewString()
		transcript := append(append([]triage.Turn(nil), req.History...),
			triage.Turn{Role: triage.RoleUser, Text: req.Message},
			triage.Turn{Role: triage.RoleAssistant, Text: reply.Text},
		)
		s.saveSnapshot(ctx, snapshot.Snapshot{
			SessionID:   key,
			PatientName: req.PatientName,
			Age:         req.Age,
			Gender:      req.Gender,
			Language:    language,
			Transcript:  transcript,
			Diagnosis:   reply.Diagnosis,
		})
		resp.SessionID = key
	}
	return resp
}

func (s *Server) respond(ctx context.Context, req triage.Request) triage.Reply {
	start := time.Now()
	reply := s.engine.Respond(ctx, req)
	elapsed := time.Since(start)

	s.metrics.TurnOutcomes.WithLabelValues(string(reply.Outcome)).Inc()
	s.metrics.ObserveTurnLatency(elapsed)
	switch reply.Outcome {
	case triage.OutcomeAcknowledged, triage.OutcomeClarify:
		s.metrics.ObserveStage(observability.StageClassify, elapsed)
	case triage.OutcomeDiagnosis:
		s.metrics.ObserveStage(observability.StageDiagnose, elapsed)
	}
	return reply
}

func (s *Server) saveSnapshot(ctx context.Context, snap snapshot.Snapshot) {
	if err := s.snapshots.Save(ctx, snap); err != nil {
		// A failed save must not fail the turn; the diagnosis already went out.
		s.metrics.SessionEvents.WithLabelValues("snapshot_save_failed").Inc()
	}
}
