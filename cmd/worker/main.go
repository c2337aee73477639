// Command worker consumes the quote-automation retry queue. It shares the
// quote pipeline wiring with cmd/api so a replayed run behaves exactly like
// the original one.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	activityrepo "workshop_backoffice/internal/activities/repository"
	activityservice "workshop_backoffice/internal/activities/service"
	"workshop_backoffice/internal/email"
	locationrepo "workshop_backoffice/internal/locations/repository"
	"workshop_backoffice/internal/pdf"
	"workshop_backoffice/internal/quote"
	requestrepo "workshop_backoffice/internal/requests/repository"
	requestservice "workshop_backoffice/internal/requests/service"
	"workshop_backoffice/internal/scheduler"
	"workshop_backoffice/internal/storage"
	workshoprepo "workshop_backoffice/internal/workshops/repository"
	workshopservice "workshop_backoffice/internal/workshops/service"
	"workshop_backoffice/platform/ai/gemini"
	"workshop_backoffice/platform/config"
	"workshop_backoffice/platform/db"
	"workshop_backoffice/platform/logger"
)

const workerConcurrency = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	if cfg.GetRedisURL() == "" {
		return errors.New("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	}

	var store storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioService, err := storage.NewMinIOService(cfg)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		store = minioService
	}

	if !cfg.IsGeminiEnabled() {
		return errors.New("GEMINI_API_KEY is required for the worker")
	}
	completer, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("gemini: %w", err)
	}

	assembler, err := quote.NewAssembler(activityrepo.New(pool), locationrepo.New(pool), cfg.GetContextTemplatePath())
	if err != nil {
		return fmt.Errorf("context assembler: %w", err)
	}
	drafter := quote.NewDrafter(assembler, completer)

	var renderer *quote.Renderer
	if cfg.GetQuoteDocumentEnabled() {
		factory := func() quote.HTMLConverter {
			return pdf.NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword())
		}
		renderer = quote.NewRenderer(factory, cfg.GetBusinessName())
	}

	deliverer := quote.NewDeliverer(store, sender, cfg.GetMinioBucketQuoteDocuments(), cfg.GetBusinessName())
	pricing := activityservice.New(activityrepo.New(pool), log)
	pipeline := quote.NewPipeline(drafter, renderer, deliverer, pricing, log)

	workshopSvc := workshopservice.New(workshoprepo.New(pool))
	// The worker only replays automation; it never enqueues or notifies.
	requestSvc := requestservice.New(requestrepo.New(pool), pipeline, workshopSvc, nil, nil, log)

	srv, err := scheduler.NewServer(cfg.GetRedisURL(), workerConcurrency)
	if err != nil {
		return fmt.Errorf("scheduler server: %w", err)
	}
	mux := scheduler.NewServeMux(requestSvc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("worker consuming retry queue", "concurrency", workerConcurrency)
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("worker: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	srv.Shutdown()
	return nil
}
