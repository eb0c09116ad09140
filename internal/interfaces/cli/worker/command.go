// Package worker boots the allocation alert worker: the periodic unassigned
// scan and the stale-alert escalation sweep.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	alertuc "innkeep/internal/application/alert/usecases"
	"innkeep/internal/infrastructure/cache"
	"innkeep/internal/infrastructure/config"
	"innkeep/internal/infrastructure/database"
	"innkeep/internal/infrastructure/email"
	"innkeep/internal/infrastructure/repository"
	"innkeep/internal/infrastructure/scheduler"
	"innkeep/internal/shared/biztime"
	"innkeep/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the allocation alert worker",
		Long:  `Run the periodic unassigned-booking scan and stale-alert escalation jobs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context())
		},
	}
}

// Run boots the worker and blocks until the context is cancelled or a
// termination signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Allocation.PropertyTimezone); err != nil {
		return fmt.Errorf("failed to initialize property timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	gormDB := database.Get()
	alertRepo := repository.NewAlertRepository(gormDB)
	bookingReader := repository.NewBookingReader(gormDB)
	cooldownStore := cache.NewEscalationCooldownStore(redisClient)

	notifier := email.NewSMTPEscalationNotifier(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})

	scanUC := alertuc.NewScanUnassignedUseCase(alertRepo, bookingReader, log)
	escalateUC := alertuc.NewEscalateStaleUseCase(alertRepo, notifier, cooldownStore, log)

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	err = manager.RegisterAlertJobs(scanUC, escalateUC, scheduler.AlertJobConfig{
		ScanInterval:       time.Duration(cfg.Alert.ScanIntervalMinutes) * time.Minute,
		ScanHorizon:        time.Duration(cfg.Alert.ScanHorizonDays) * 24 * time.Hour,
		EscalationInterval: time.Duration(cfg.Alert.EscalationIntervalMinutes) * time.Minute,
		EscalateAfter:      time.Duration(cfg.Alert.EscalateAfterMinutes) * time.Minute,
		EscalationCooldown: time.Duration(cfg.Alert.EscalationCooldownMinutes) * time.Minute,
		Recipients:         cfg.Alert.EscalationRecipients,
	})
	if err != nil {
		return fmt.Errorf("failed to register alert jobs: %w", err)
	}

	manager.Start()
	log.Infow("allocation alert worker started",
		"scan_interval_minutes", cfg.Alert.ScanIntervalMinutes,
		"escalation_interval_minutes", cfg.Alert.EscalationIntervalMinutes,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infow("received signal, shutting down", "signal", sig)
	case <-ctx.Done():
		log.Infow("context cancelled, shutting down")
	}

	if err := manager.Stop(); err != nil {
		return fmt.Errorf("scheduler shutdown failed: %w", err)
	}

	log.Infow("allocation alert worker stopped")
	return nil
}
