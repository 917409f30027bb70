package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"medmind/internal/observability"
	"medmind/internal/report"
	"medmind/internal/snapshot"
)

// handleReport renders the assessment report for a completed session and
// streams the file. Without a session_id the most recent snapshot is used.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var (
		snap snapshot.Snapshot
		err  error
	)
	if id := strings.TrimSpace(r.URL.Query().Get("session_id")); id != "" {
		snap, err = s.snapshots.Get(r.Context(), id)
	} else {
		snap, err = s.snapshots.Latest(r.Context())
	}
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			respondError(w, http.StatusNotFound, "report_not_available", "no completed assessment found")
			return
		}
		respondError(w, http.StatusInternalServerError, "snapshot_load_failed", err.Error())
		return
	}

	start := time.Now()
	path, format, err := s.reports.Render(snap)
	if err != nil {
		s.metrics.ReportRenders.WithLabelValues("error").Inc()
		respondError(w, http.StatusInternalServerError, "report_render_failed", err.Error())
		return
	}
	s.metrics.ReportRenders.WithLabelValues(format).Inc()
	s.metrics.ObserveStage(observability.StageReport, time.Since(start))

	contentType := "application/pdf"
	if format == report.FormatText {
		contentType = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
