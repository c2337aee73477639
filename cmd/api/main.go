// Command api runs the workshop back office HTTP server.
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

	"github.com/jackc/pgx/v5/pgxpool"

	"workshop_backoffice/internal/activities"
	activityrepo "workshop_backoffice/internal/activities/repository"
	"workshop_backoffice/internal/email"
	apphttp "workshop_backoffice/internal/http"
	"workshop_backoffice/internal/http/router"
	"workshop_backoffice/internal/locations"
	locationrepo "workshop_backoffice/internal/locations/repository"
	"workshop_backoffice/internal/notification"
	"workshop_backoffice/internal/pdf"
	"workshop_backoffice/internal/quote"
	"workshop_backoffice/internal/requests"
	requestservice "workshop_backoffice/internal/requests/service"
	"workshop_backoffice/internal/scheduler"
	"workshop_backoffice/internal/storage"
	"workshop_backoffice/internal/workshops"
	"workshop_backoffice/migrations"
	"workshop_backoffice/platform/ai/gemini"
	"workshop_backoffice/platform/config"
	"workshop_backoffice/platform/db"
	"workshop_backoffice/platform/events"
	"workshop_backoffice/platform/logger"
	"workshop_backoffice/platform/validator"
)

const shutdownTimeout = 10 * time.Second

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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := connectWithRetry(ctx, cfg.GetDatabaseURL(), log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(pool, migrations.FS); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations applied")

	bus := events.NewInMemoryBus(log)

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender configured", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email disabled, quote delivery is a no-op")
	}

	var store storage.ObjectStore
	if cfg.IsMinIOEnabled() {
		minioService, err := storage.NewMinIOService(cfg)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		if err := minioService.EnsureBucketExists(ctx, cfg.GetMinioBucketQuoteDocuments()); err != nil {
			return fmt.Errorf("ensure quote bucket: %w", err)
		}
		store = minioService
	}

	var completer quote.Completer = disabledCompleter{}
	if cfg.IsGeminiEnabled() {
		geminiClient, err := gemini.NewClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		completer = geminiClient
	} else {
		log.Warn("gemini disabled, draft generation will fail until GEMINI_API_KEY is set")
	}

	val := validator.New()
	activitiesModule := activities.NewModule(pool, val, log)
	locationsModule := locations.NewModule(pool)
	workshopsModule := workshops.NewModule(pool)

	assembler, err := quote.NewAssembler(activityrepo.New(pool), locationrepo.New(pool), cfg.GetContextTemplatePath())
	if err != nil {
		return fmt.Errorf("context assembler: %w", err)
	}
	drafter := quote.NewDrafter(assembler, completer)

	// Document rendering is feature flagged; without it the pipeline runs in
	// email-only mode.
	var renderer *quote.Renderer
	if cfg.GetQuoteDocumentEnabled() {
		factory := func() quote.HTMLConverter {
			return pdf.NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword())
		}
		renderer = quote.NewRenderer(factory, cfg.GetBusinessName())
		log.Info("quote document rendering enabled", "gotenberg", cfg.GetGotenbergURL())
	}

	deliverer := quote.NewDeliverer(store, sender, cfg.GetMinioBucketQuoteDocuments(), cfg.GetBusinessName())
	pipeline := quote.NewPipeline(drafter, renderer, deliverer, activitiesModule.Service(), log)

	var enqueuer requestservice.RetryEnqueuer
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg.GetRedisURL(), log)
		if err != nil {
			return fmt.Errorf("scheduler client: %w", err)
		}
		defer schedClient.Close()
		enqueuer = schedClient
	} else {
		log.Warn("redis not configured, failed automation runs will not be retried automatically")
	}

	requestsModule := requests.NewModule(pool, pipeline, workshopsModule.Service(), enqueuer, bus, log)

	notification.NewSubscriber(sender, cfg.GetOperatorAddress(), log).Register(bus)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: bus,
		Modules: []apphttp.Module{
			activitiesModule,
			locationsModule,
			requestsModule,
			workshopsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.GetHTTPAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// connectWithRetry waits for the database to come up, backing off
// quadratically between attempts.
func connectWithRetry(ctx context.Context, databaseURL string, log *logger.Logger) (*pgxpool.Pool, error) {
	const attempts = 5

	var lastErr error
	for i := 1; i <= attempts; i++ {
		pool, err := db.NewPool(ctx, databaseURL)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		wait := time.Duration(i*i) * time.Second
		log.Warn("database connection failed, retrying",
			"attempt", i,
			"wait", wait.String(),
			"error", err.Error(),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// disabledCompleter stands in when no Gemini key is configured. Every draft
// attempt fails, which surfaces as a pipeline warning rather than a crash.
type disabledCompleter struct{}

func (disabledCompleter) Complete(context.Context, string, string) (string, error) {
	return "", errors.New("no completion endpoint configured")
}
