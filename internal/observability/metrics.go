package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ActiveSessions       prometheus.Gauge
	SessionEvents        *prometheus.CounterVec
	TurnOutcomes         *prometheus.CounterVec
	OracleErrors         *prometheus.CounterVec
	TranslationFallbacks *prometheus.CounterVec
	ReportRenders        *prometheus.CounterVec
	TurnLatency          prometheus.Histogram

	turnStages *turnStageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of active triage sessions.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session events by type.",
		}, []string{"event"}),
		TurnOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turn_outcomes_total",
			Help:      "Chat turns by state-machine outcome.",
		}, []string{"outcome"}),
		OracleErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_errors_total",
			Help:      "External oracle failures by call site.",
		}, []string{"call"}),
		TranslationFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translation_fallbacks_total",
			Help:      "Localization degradations by stage.",
		}, []string{"stage"}),
		ReportRenders: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_renders_total",
			Help:      "Report renders by output format.",
		}, []string{"format"}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "End-to-end chat turn latency in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000},
		}),
		turnStages: newTurnStageWindow(256),
	}
}

// ObserveTurnLatency records one full chat turn.
func (m *Metrics) ObserveTurnLatency(d time.Duration) {
	ms := float64(d.Milliseconds())
	m.TurnLatency.Observe(ms)
	m.turnStages.Observe(StageTurnTotal, ms)
}

// ObserveStage records one named pipeline stage into the rolling window.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.turnStages.Observe(stage, float64(d.Milliseconds()))
}

// LatencySnapshot returns rolling latency stats for the perf endpoint.
func (m *Metrics) LatencySnapshot() TurnStageSnapshot {
	return m.turnStages.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
