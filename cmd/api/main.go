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

	"github.com/jj8127/Appointment-Process-sub000/internal/adapters/storage"
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/catalog"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway/ratelimit"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/internal/http/router"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/db"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	redisOpt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to parse redis url", "error", err)
		panic("failed to parse redis url: " + err.Error())
	}
	redisClient := redis.NewClient(redisOpt)
	defer func() { _ = redisClient.Close() }()

	limiter := ratelimit.NewSlidingWindow(redisClient, cfg.GetActionRatePerMinute(), time.Minute, log)
	guard := gateway.New(cfg, limiter, log)

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure documents bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinIOBucketDocuments())
	}); err != nil {
		log.Error("failed to ensure documents bucket exists", "error", err)
		panic("failed to ensure documents bucket exists: " + err.Error())
	}
	log.Info("storage service initialized", "documentsBucket", cfg.GetMinIOBucketDocuments())

	docCatalog, err := catalog.Load(cfg.GetDocumentCatalogPath())
	if err != nil {
		log.Error("failed to load document catalog", "error", err)
		panic("failed to load document catalog: " + err.Error())
	}
	log.Info("document catalog loaded", "entries", len(docCatalog.Entries()))

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification first: its dispatcher feeds every other module.
	notificationModule := notification.NewModule(pool, guard, eventBus, log, cfg.IsPushEnabled(), cfg.GetAdminEmailAddress())
	notifier := notificationModule.Service()

	bucket := cfg.GetMinIOBucketDocuments()

	candidatesModule := candidates.NewModule(pool, guard, notifier, storageSvc, bucket, eventBus, val, log)
	authModule := auth.NewModule(pool, candidatesModule.Repository(), cfg, val)
	documentsModule := documents.NewModule(pool, candidatesModule.Repository(), guard, notifier, storageSvc, bucket, docCatalog, eventBus, val, log)
	appointmentsModule := appointments.NewModule(pool, candidatesModule.Repository(), guard, notifier, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			notificationModule,
			candidatesModule,
			documentsModule,
			appointmentsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
