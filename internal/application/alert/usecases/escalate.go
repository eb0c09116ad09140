package usecases

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/domain/alert"
	vo "innkeep/internal/domain/alert/valueobjects"
	"innkeep/internal/shared/logger"
)

type EscalateStaleCommand struct {
	// StaleAfter is how long a critical alert may stay open before it
	// escalates.
	StaleAfter time.Duration
	// Cooldown suppresses repeat escalations of the same alert.
	Cooldown   time.Duration
	Recipients []string
}

type EscalateStaleResult struct {
	Examined  int
	Escalated int
	Skipped   int
	AlertIDs  []uint
}

// EscalateStaleUseCase sweeps unresolved critical alerts that have been open
// past the stale threshold, raises their escalation level and notifies the
// widened recipient set. The cooldown store keeps concurrent workers from
// double-escalating the same alert.
type EscalateStaleUseCase struct {
	alertRepo alert.AlertRepository
	notifier  EscalationNotifier
	cooldown  EscalationCooldown
	logger    logger.Interface
}

func NewEscalateStaleUseCase(
	alertRepo alert.AlertRepository,
	notifier EscalationNotifier,
	cooldown EscalationCooldown,
	logger logger.Interface,
) *EscalateStaleUseCase {
	return &EscalateStaleUseCase{
		alertRepo: alertRepo,
		notifier:  notifier,
		cooldown:  cooldown,
		logger:    logger,
	}
}

func (uc *EscalateStaleUseCase) Execute(ctx context.Context, cmd EscalateStaleCommand) (*EscalateStaleResult, error) {
	if cmd.StaleAfter <= 0 {
		cmd.StaleAfter = 2 * time.Hour
	}
	if cmd.Cooldown <= 0 {
		cmd.Cooldown = cmd.StaleAfter
	}

	cutoff := time.Now().UTC().Add(-cmd.StaleAfter)
	stale, err := uc.alertRepo.ListStale(ctx, vo.SeverityCritical, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale alerts: %w", err)
	}

	result := &EscalateStaleResult{Examined: len(stale)}
	for _, a := range stale {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		ok, err := uc.cooldown.TryAcquire(ctx, a.ID(), cmd.Cooldown)
		if err != nil {
			uc.logger.Warnw("escalation cooldown check failed", "error", err, "alert_id", a.ID())
			result.Skipped++
			continue
		}
		if !ok {
			result.Skipped++
			continue
		}

		if err := a.Escalate(cmd.Recipients, []string{"email"}); err != nil {
			uc.logger.Warnw("failed to escalate alert", "error", err, "alert_id", a.ID())
			result.Skipped++
			continue
		}
		if err := uc.alertRepo.Update(ctx, a); err != nil {
			uc.logger.Errorw("failed to persist escalation", "error", err, "alert_id", a.ID())
			result.Skipped++
			continue
		}

		// Delivery failure does not roll back the level bump; the next sweep
		// retries notification after the cooldown lapses.
		if err := uc.notifier.NotifyEscalation(ctx, a, cmd.Recipients); err != nil {
			uc.logger.Errorw("failed to notify escalation", "error", err, "alert_id", a.ID())
		}

		result.Escalated++
		result.AlertIDs = append(result.AlertIDs, a.ID())
		uc.logger.Infow("alert escalated",
			"alert_id", a.ID(),
			"booking_id", a.BookingID(),
			"level", a.EscalationLevel(),
			"severity", a.Severity().String(),
		)
	}
	return result, nil
}
