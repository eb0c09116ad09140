// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	alertuc "innkeep/internal/application/alert/usecases"
	"innkeep/internal/shared/biztime"
	"innkeep/internal/shared/logger"
)

// AlertScanner runs one sweep for unassigned confirmed bookings.
type AlertScanner interface {
	Execute(ctx context.Context, cmd alertuc.ScanUnassignedCommand) (*alertuc.ScanUnassignedResult, error)
}

// AlertEscalator runs one stale-alert escalation sweep.
type AlertEscalator interface {
	Execute(ctx context.Context, cmd alertuc.EscalateStaleCommand) (*alertuc.EscalateStaleResult, error)
}

// AlertJobConfig carries the tuning knobs for the two periodic alert jobs.
type AlertJobConfig struct {
	ScanInterval       time.Duration
	ScanHorizon        time.Duration
	EscalationInterval time.Duration
	EscalateAfter      time.Duration
	EscalationCooldown time.Duration
	Recipients         []string
}

// SchedulerManager manages all scheduled jobs using gocron v2. A single
// scheduler instance carries every job so startup and shutdown stay in one
// place.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the property timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterAlertJobs registers the allocation alert jobs:
// - Unassigned scan: every ScanInterval over [now, now+ScanHorizon), start immediately
// - Stale escalation: every EscalationInterval
func (m *SchedulerManager) RegisterAlertJobs(
	scanner AlertScanner,
	escalator AlertEscalator,
	cfg AlertJobConfig,
) error {
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = 15 * time.Minute
	}
	if cfg.ScanHorizon <= 0 {
		cfg.ScanHorizon = 7 * 24 * time.Hour
	}
	if cfg.EscalationInterval <= 0 {
		cfg.EscalationInterval = 30 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(cfg.ScanInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runUnassignedScan(ctx, scanner, cfg.ScanHorizon)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("alert", "unassigned-scan"),
		gocron.WithName("alert-unassigned-scan"),
	)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.DurationJob(cfg.EscalationInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			m.runEscalationSweep(ctx, escalator, cfg)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("alert", "escalation"),
		gocron.WithName("alert-escalation"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered alert jobs",
		"scan_interval", cfg.ScanInterval.String(),
		"scan_horizon", cfg.ScanHorizon.String(),
		"escalation_interval", cfg.EscalationInterval.String(),
	)
	return nil
}

func (m *SchedulerManager) runUnassignedScan(ctx context.Context, scanner AlertScanner, horizon time.Duration) {
	m.logger.Debugw("unassigned scan started")

	startTime := biztime.NowUTC()
	result, err := scanner.Execute(ctx, alertuc.ScanUnassignedCommand{
		From: startTime,
		To:   startTime.Add(horizon),
	})
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("unassigned scan failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if len(result.Alerts) > 0 {
		m.logger.Infow("unassigned scan completed",
			"findings", len(result.Alerts),
			"created", result.Created,
			"refreshed", result.Refreshed,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no unassigned bookings found",
			"duration", time.Since(startTime),
		)
	}
}

func (m *SchedulerManager) runEscalationSweep(ctx context.Context, escalator AlertEscalator, cfg AlertJobConfig) {
	m.logger.Debugw("escalation sweep started")

	startTime := biztime.NowUTC()
	result, err := escalator.Execute(ctx, alertuc.EscalateStaleCommand{
		StaleAfter: cfg.EscalateAfter,
		Cooldown:   cfg.EscalationCooldown,
		Recipients: cfg.Recipients,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("escalation sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Escalated > 0 {
		m.logger.Infow("escalation sweep completed",
			"examined", result.Examined,
			"escalated", result.Escalated,
			"skipped", result.Skipped,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no alerts needed escalation",
			"examined", result.Examined,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
