package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/devicetoken"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/email"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/outbox"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/push"
	"github.com/jj8127/Appointment-Process-sub000/internal/scheduler"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/db"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	outboxRepo := outbox.New(pool)
	tokens := devicetoken.New(pool)

	var pushSender scheduler.PushSender
	if cfg.IsPushEnabled() {
		pushSender = push.NewClient(cfg.GetExpoPushURL())
	}
	var emailSender scheduler.EmailSender
	if cfg.GetEmailEnabled() {
		emailSender = email.NewSMTPSender(cfg)
	}

	deliverer := scheduler.NewDeliverer(outboxRepo, tokens, pushSender, emailSender, log)
	deliverer.Subscribe(eventBus)

	worker, err := scheduler.NewWorker(cfg, eventBus, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	dispatcher, err := scheduler.NewOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()

	// Reminder sends go through the same dispatcher path as API-triggered
	// notifications: in-app row first, outbox for delivery.
	notifier := notification.NewService(inapp.NewRepository(pool), outboxRepo, log, cfg.IsPushEnabled(), cfg.GetAdminEmailAddress())
	reminder := scheduler.NewDeadlineReminder(cfg, candrepo.New(pool), notifier, log)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		worker.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		dispatcher.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		reminder.Run(groupCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("worker stopped", "error", err)
		panic("worker stopped: " + err.Error())
	}
	log.Info("worker shut down")
}
