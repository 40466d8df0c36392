package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mjseo/auditor/internal/audit"
	"github.com/mjseo/auditor/internal/chat"
	"github.com/mjseo/auditor/internal/checks"
	"github.com/mjseo/auditor/internal/crawl"
	"github.com/mjseo/auditor/internal/llm"
	"github.com/mjseo/auditor/internal/platform/config"
	"github.com/mjseo/auditor/internal/platform/logger"
	"github.com/mjseo/auditor/internal/platform/middleware"
	"github.com/mjseo/auditor/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	log.Info("seo auditor starting", "port", cfg.Port, "db", cfg.DBPath)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		return err
	}
	st := store.New(db)

	fetcher := crawl.NewHTTPFetcher(cfg.Crawl.FetchTimeout, cfg.Crawl.MaxBodyBytes, cfg.Crawl.UserAgent)
	meta := crawl.NewMetaCollector(fetcher, "", log)
	crawler := crawl.NewCrawler(fetcher, meta, cfg.Crawl.Workers, cfg.Crawl.RequestsPerSecond, log)

	runner := checks.NewRunner(checks.Registry(), 8, log)

	llmClient := llm.NewHTTPClient(cfg.LLM, log)
	narrator := llm.NewNarrator(llmClient, log)

	orch := audit.NewOrchestrator(st, crawler, runner, narrator, log)
	queue := audit.NewQueue(orch, 64, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	queue.Start(ctx, cfg.AuditWorkers)

	quota := audit.NewPlanQuota(st, "free", cfg.Crawl.MaxPages)
	auditSvc := audit.NewService(st, quota, queue, log)
	chatSvc := chat.NewService(st, llmClient, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api/v1", func(r chi.Router) {
		audit.NewTransport(auditSvc, log).RegisterRoutes(r)
		chat.NewTransport(chatSvc, log).RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	queue.Shutdown()
	log.Info("stopped")
	return nil
}
