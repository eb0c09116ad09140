package usecases

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/domain/alert"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type ListAlertsCommand struct {
	Limit  int
	Offset int
}

type AlertInfo struct {
	AlertID         uint
	BookingID       uint
	AllocationID    *uint
	AlertType       string
	Severity        string
	EscalationLevel int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ListAlertsResult struct {
	Alerts []AlertInfo
	Total  int64
}

// ListAlertsUseCase pages through unresolved alerts, most urgent first.
type ListAlertsUseCase struct {
	alertRepo alert.AlertRepository
	logger    logger.Interface
}

func NewListAlertsUseCase(alertRepo alert.AlertRepository, logger logger.Interface) *ListAlertsUseCase {
	return &ListAlertsUseCase{alertRepo: alertRepo, logger: logger}
}

func (uc *ListAlertsUseCase) Execute(ctx context.Context, cmd ListAlertsCommand) (*ListAlertsResult, error) {
	if cmd.Limit <= 0 {
		cmd.Limit = 50
	}
	if cmd.Limit > 500 {
		return nil, errors.NewBadRequestError("limit cannot exceed 500")
	}
	if cmd.Offset < 0 {
		return nil, errors.NewBadRequestError("offset cannot be negative")
	}

	alerts, total, err := uc.alertRepo.ListUnresolved(ctx, cmd.Limit, cmd.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	result := &ListAlertsResult{Total: total}
	for _, a := range alerts {
		result.Alerts = append(result.Alerts, AlertInfo{
			AlertID:         a.ID(),
			BookingID:       a.BookingID(),
			AllocationID:    a.AllocationID(),
			AlertType:       a.Type().String(),
			Severity:        a.Severity().String(),
			EscalationLevel: a.EscalationLevel(),
			CreatedAt:       a.CreatedAt(),
			UpdatedAt:       a.UpdatedAt(),
		})
	}
	return result, nil
}
