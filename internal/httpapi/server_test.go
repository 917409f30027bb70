package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"medmind/internal/config"
	"medmind/internal/observability"
	"medmind/internal/oracle"
	"medmind/internal/report"
	"medmind/internal/session"
	"medmind/internal/snapshot"
	"medmind/internal/translate"
	"medmind/internal/triage"
)

var (
	testMetricsOnce sync.Once
	testMetrics     *observability.Metrics
)

func metricsForTest() *observability.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = observability.NewMetrics("medmind_httpapi_test")
	})
	return testMetrics
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Config{
		OracleMode:               "mock",
		ConfidenceThreshold:      6,
		ClassifyAttemptLimit:     3,
		SessionInactivityTimeout: time.Minute,
	}

	catalog, err := triage.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	gen := oracle.NewMockGenerator()
	localizer := translate.NewLocalizer(nil, gen)
	engine := triage.NewEngine(catalog, gen, localizer, cfg.ConfidenceThreshold, cfg.ClassifyAttemptLimit)

	reports, err := report.NewService(t.TempDir(), "")
	if err != nil {
		t.Fatalf("report.NewService() error = %v", err)
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	return New(cfg, sessions, engine, snapshot.NewInMemoryStore(), reports, metricsForTest())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthAndReady(t *testing.T) {
	router := newTestServer(t).Router()
	if rec := doJSON(t, router, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz status = %d, want 200", rec.Code)
	}
}

func TestCreateSessionDefaults(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", session.CreateRequest{Age: 31, Gender: "female"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[session.CreateResponse](t, rec)
	if resp.SessionID == "" {
		t.Fatal("SessionID is empty")
	}
	if resp.Profile.PatientName != "Anonymous" || resp.Profile.Language != "English" {
		t.Fatalf("profile defaults not applied: %+v", resp.Profile)
	}
	if resp.Status != session.StatusActive {
		t.Fatalf("Status = %q, want active", resp.Status)
	}
}

func TestCreateSessionRejectsBadAge(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", session.CreateRequest{Age: 200})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChatUnknownSession(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodPost, "/v1/chat", chatRequest{SessionID: "missing", Message: "hi"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChatSessionFullAssessment(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	created := decodeBody[session.CreateResponse](t,
		doJSON(t, router, http.MethodPost, "/v1/sessions", session.CreateRequest{PatientName: "Asha", Age: 31, Gender: "female"}))

	chat := func(message string) chatResponse {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, "/v1/chat", chatRequest{SessionID: created.SessionID, Message: message})
		if rec.Code != http.StatusOK {
			t.Fatalf("chat status = %d: %s", rec.Code, rec.Body.String())
		}
		return decodeBody[chatResponse](t, rec)
	}

	if resp := chat("hi"); resp.Outcome != triage.OutcomeGreeting {
		t.Fatalf("Outcome = %q, want greeting", resp.Outcome)
	}

	resp := chat("I have severe stomach pain")
	if resp.Outcome != triage.OutcomeAcknowledged {
		t.Fatalf("Outcome = %q, want acknowledged: %q", resp.Outcome, resp.Reply)
	}
	if !strings.Contains(resp.Reply, triage.CategoryTagPrefix+"stomach_pain") {
		t.Fatalf("acknowledgment missing category tag: %q", resp.Reply)
	}

	for i := 0; i < triage.QuestionsPerCategory; i++ {
		resp = chat("answer")
		if resp.Outcome != triage.OutcomeQuestion {
			t.Fatalf("turn %d Outcome = %q, want question: %q", i, resp.Outcome, resp.Reply)
		}
	}

	resp = chat("final answer")
	if resp.Outcome != triage.OutcomeDiagnosis {
		t.Fatalf("Outcome = %q, want diagnosis: %q", resp.Outcome, resp.Reply)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/report?session_id="+created.SessionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("Content-Disposition = %q, want attachment", cd)
	}

	rendered := false
	for _, stage := range srv.metrics.LatencySnapshot().Stages {
		if stage.Stage == observability.StageReport {
			rendered = true
		}
	}
	if !rendered {
		t.Fatal("report render latency was not observed")
	}
}

func TestChatEndedSessionConflicts(t *testing.T) {
	router := newTestServer(t).Router()
	created := decodeBody[session.CreateResponse](t,
		doJSON(t, router, http.MethodPost, "/v1/sessions", nil))

	if rec := doJSON(t, router, http.MethodPost, "/v1/sessions/"+created.SessionID+"/end", nil); rec.Code != http.StatusOK {
		t.Fatalf("end status = %d", rec.Code)
	}
	rec := doJSON(t, router, http.MethodPost, "/v1/chat", chatRequest{SessionID: created.SessionID, Message: "hello"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("chat status = %d, want 409", rec.Code)
	}
}

func TestChatReplayMode(t *testing.T) {
	router := newTestServer(t).Router()

	history := []triage.Turn{
		{Role: triage.RoleUser, Text: "I have severe stomach pain"},
		{Role: triage.RoleAssistant, Text: "I understand you're experiencing: I have severe stomach pain\n\nCATEGORY:stomach_pain"},
	}
	rec := doJSON(t, router, http.MethodPost, "/v1/chat", chatRequest{
		Message: "since yesterday",
		History: history,
		Age:     40,
		Gender:  "male",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[chatResponse](t, rec)
	if resp.Outcome != triage.OutcomeQuestion {
		t.Fatalf("Outcome = %q, want question: %q", resp.Outcome, resp.Reply)
	}
	if resp.SessionID != "" {
		t.Fatalf("SessionID = %q, want empty before diagnosis", resp.SessionID)
	}
}

func TestReportWithoutSnapshot(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodGet, "/v1/report", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPerfLatencyEndpoint(t *testing.T) {
	router := newTestServer(t).Router()
	rec := doJSON(t, router, http.MethodGet, "/v1/perf/latency", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap observability.TurnStageSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode perf snapshot: %v", err)
	}
}

func TestChatWebSocket(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	created := decodeBody[session.CreateResponse](t,
		doJSON(t, srv.Router(), http.MethodPost, "/v1/sessions", nil))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/ws?session_id=" + created.SessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial error = %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsChatInbound{Message: "hi"}); err != nil {
		t.Fatalf("ws write error = %v", err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("ws read error = %v", err)
	}
	if resp.Outcome != triage.OutcomeGreeting {
		t.Fatalf("Outcome = %q, want greeting", resp.Outcome)
	}
}
