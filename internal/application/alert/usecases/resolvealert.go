package usecases

import (
	"context"
	"fmt"

	"innkeep/internal/domain/alert"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type ResolveAlertCommand struct {
	AlertID    uint
	ResolvedBy string
	Notes      string
	// Dismiss resolves the alert without any room having been assigned.
	Dismiss bool
}

type ResolveAlertResult struct {
	AlertID   uint
	BookingID uint
}

// ResolveAlertUseCase closes a single alert by operator action.
type ResolveAlertUseCase struct {
	alertRepo alert.AlertRepository
	logger    logger.Interface
}

func NewResolveAlertUseCase(alertRepo alert.AlertRepository, logger logger.Interface) *ResolveAlertUseCase {
	return &ResolveAlertUseCase{alertRepo: alertRepo, logger: logger}
}

func (uc *ResolveAlertUseCase) Execute(ctx context.Context, cmd ResolveAlertCommand) (*ResolveAlertResult, error) {
	if cmd.AlertID == 0 {
		return nil, errors.NewBadRequestError("alert ID is required")
	}
	if cmd.ResolvedBy == "" {
		return nil, errors.NewBadRequestError("resolver is required")
	}

	a, err := uc.alertRepo.GetByID(ctx, cmd.AlertID)
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	if a == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("alert %d not found", cmd.AlertID))
	}

	if cmd.Dismiss {
		err = a.Dismiss(cmd.ResolvedBy, cmd.Notes)
	} else {
		err = a.Resolve(cmd.ResolvedBy, cmd.Notes)
	}
	if err != nil {
		return nil, errors.NewBusinessRuleError(err.Error())
	}

	if err := uc.alertRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update alert: %w", err)
	}

	uc.logger.Infow("alert resolved",
		"alert_id", a.ID(),
		"booking_id", a.BookingID(),
		"resolved_by", cmd.ResolvedBy,
		"dismissed", cmd.Dismiss,
	)
	return &ResolveAlertResult{AlertID: a.ID(), BookingID: a.BookingID()}, nil
}
