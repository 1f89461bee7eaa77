// Command bot runs the event RSVP bot: Telegram long polling, the cleanup schedule and,
// when OPS_ADDR is set, the ops HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"rsvpbot/config"
	_ "rsvpbot/docs"
	"rsvpbot/internal/adapters/auth"
	"rsvpbot/internal/adapters/telegram"
	"rsvpbot/internal/delivery/dispatch"
	deliveryhttp "rsvpbot/internal/delivery/http"
	"rsvpbot/internal/delivery/http/controllers"
	"rsvpbot/internal/domain"
	"rsvpbot/internal/ratelimit"
	"rsvpbot/internal/repository/postgres"
	"rsvpbot/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title RSVP bot ops API
// @version 1.0
// @description Read-only operations API for the event RSVP bot.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("database ready")

	eventRepo := postgres.NewEventRepository(db)
	attendeeRepo := postgres.NewAttendeeRepository(db)

	client, err := telegram.NewClient(cfg.BotToken, logger.With("component", "telegram"))
	if err != nil {
		return err
	}
	username, err := client.Username(ctx)
	if err != nil {
		return err
	}

	timeout := cfg.UpdateTimeout
	events := services.NewEventService(eventRepo, timeout)
	admins := services.NewAdminService(postgres.NewAdminRepository(db), timeout)
	rosters := services.NewRosterService(attendeeRepo, client, logger.With("component", "roster"), timeout)
	if err := seedAdmin(ctx, admins, cfg.AdminID, logger); err != nil {
		return err
	}

	dispatcher := dispatch.New(dispatch.Deps{
		Events:       events,
		Registration: services.NewRegistrationService(postgres.NewRegistrar(db), timeout),
		Admins:       admins,
		Roster:       rosters,
		Notifier:     services.NewNotifier(attendeeRepo, client, logger.With("component", "notifier"), timeout),
		Messenger:    client,
		Limiter:      ratelimit.New(cfg.RateLimitCommand, cfg.RateLimitCallback),
	}, username, timeout, logger.With("component", "dispatch"))

	cleanup := services.NewCleanupJob(events, cfg.CleanupMaxAge, logger.With("component", "cleanup"))
	scheduler, err := startScheduler(ctx, cfg.CleanupSchedule, cleanup, logger)
	if err != nil {
		return err
	}
	defer func() {
		<-scheduler.Stop().Done()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := cleanup.Run(ctx)
		if err != nil {
			logger.Warn("startup cleanup failed", "error", err)
		}
		return nil
	})
	if cfg.OpsAddr != "" {
		signer := auth.NewJWT(cfg.OpsJWTSecret)
		router := deliveryhttp.NewRouter(logger.With("component", "ops_http"), signer,
			controllers.NewHealthController(logger, db),
			controllers.NewRosterController(logger, events, attendeeRepo, rosters),
		)
		g.Go(func() error {
			return serveOps(ctx, cfg.OpsAddr, router, logger)
		})
	}
	g.Go(func() error {
		logger.Info("bot started", "username", username)
		client.Start(ctx, dispatcher)
		return nil
	})
	return g.Wait()
}

// seedAdmin makes sure the configured bootstrap admin exists.
func seedAdmin(ctx context.Context, admins domain.AdminService, adminID int64, logger *slog.Logger) error {
	if adminID == 0 {
		logger.Warn("ADMIN_ID is not set, no admin seeded")
		return nil
	}
	err := admins.Add(ctx, adminID)
	switch {
	case err == nil:
		logger.Info("seeded admin", "admin_id", adminID)
	case errors.Is(err, domain.ErrAlreadyAdmin):
	default:
		return err
	}
	return nil
}

func startScheduler(ctx context.Context, schedule string, job *services.CleanupJob, logger *slog.Logger) (*cron.Cron, error) {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.With("component", "cron").Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))
	if _, err := c.AddFunc(schedule, func() {
		job.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("cleanup scheduled", "schedule", schedule)
	return c, nil
}

func serveOps(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops http listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
