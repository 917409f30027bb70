package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type wsChatInbound struct {
	Message string `json:"message"`
}

type wsChatError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// handleChatWS serves an interactive chat over one websocket. The session
// must already exist; every inbound frame is one patient message and every
// outbound frame is one assistant reply.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}
	if _, err := s.sessions.Get(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
	defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		var in wsChatInbound
		if err := json.Unmarshal(data, &in); err != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if writeErr := conn.WriteJSON(wsChatError{Error: err.Error(), Code: "invalid_client_message"}); writeErr != nil {
				return
			}
			continue
		}

		resp, apiErr := s.sessionTurn(r.Context(), sessionID, in.Message)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if apiErr != nil {
			if err := conn.WriteJSON(wsChatError{Error: apiErr.message, Code: apiErr.code}); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
