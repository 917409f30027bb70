package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medmind/internal/config"
	"medmind/internal/httpapi"
	"medmind/internal/observability"
	"medmind/internal/oracle"
	"medmind/internal/report"
	"medmind/internal/session"
	"medmind/internal/snapshot"
	"medmind/internal/translate"
	"medmind/internal/triage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	catalog, err := triage.LoadCatalog()
	if err != nil {
		log.Fatalf("symptom catalog load failed: %v", err)
	}
	log.Printf("symptom catalog: %d categories", catalog.Len())

	ctx := context.Background()
	snapshots, err := snapshot.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("snapshot store init failed: %v", err)
	}
	defer snapshots.Close()

	gen, err := oracle.NewGenerator(oracle.Config{
		Mode:    cfg.OracleMode,
		APIKey:  cfg.OracleAPIKey,
		Model:   cfg.OracleModel,
		BaseURL: cfg.OracleBaseURL,
	})
	if err != nil {
		log.Fatalf("oracle init failed: %v", err)
	}
	gen = oracle.WithTimeout(gen, cfg.OracleTimeout)
	gen = oracle.WithErrorHook(gen, func(error) {
		metrics.OracleErrors.WithLabelValues("generate").Inc()
	})

	var translator translate.Translator
	if strings.TrimSpace(cfg.TranslateURL) != "" {
		translator = translate.NewHTTPTranslator(cfg.TranslateURL, cfg.TranslateAPIKey, cfg.TranslateTimeout)
		log.Printf("translator: %s", cfg.TranslateURL)
	} else {
		log.Printf("translator: none (oracle fallback only)")
	}

	localizer := translate.NewLocalizer(translator, gen)
	localizer.SetFallbackHook(func(stage string) {
		metrics.TranslationFallbacks.WithLabelValues(stage).Inc()
	})
	localizer.SetLatencyHook(func(d time.Duration) {
		metrics.ObserveStage(observability.StageLocalize, d)
	})

	engine := triage.NewEngine(catalog, gen, localizer, cfg.ConfidenceThreshold, cfg.ClassifyAttemptLimit)

	reports, err := report.NewService(cfg.ReportDir, cfg.ReportFontPath)
	if err != nil {
		log.Fatalf("report service init failed: %v", err)
	}

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	api := httpapi.New(cfg, sessions, engine, snapshots, reports, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
