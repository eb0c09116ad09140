package usecases

import (
	"context"
	"fmt"

	"innkeep/internal/domain/alert"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

// Bulk resolution actions.
const (
	BulkActionAutoAssign   = "auto_assign"
	BulkActionManualAssign = "manual_assign"
	BulkActionDismiss      = "dismiss"
)

type BulkResolveCommand struct {
	AlertIDs []uint
	Action   string
	// RoomID is required for manual_assign and applies to every alert in the
	// batch.
	RoomID uint
	// Strategy selects the scorer for auto_assign; empty falls back to the
	// assigner's default.
	Strategy   string
	ResolvedBy string
	Notes      string
}

// BulkResolveItem is the outcome for one alert in the batch.
type BulkResolveItem struct {
	AlertID      uint
	BookingID    uint
	Success      bool
	AllocationID uint
	Error        string
}

type BulkResolveResult struct {
	Resolved int
	Failed   int
	Items    []BulkResolveItem
}

// BulkResolveUseCase applies one action to a batch of alerts. Each alert is
// handled independently; one failure never aborts the rest.
type BulkResolveUseCase struct {
	alertRepo alert.AlertRepository
	assigner  Assigner
	logger    logger.Interface
}

func NewBulkResolveUseCase(
	alertRepo alert.AlertRepository,
	assigner Assigner,
	logger logger.Interface,
) *BulkResolveUseCase {
	return &BulkResolveUseCase{
		alertRepo: alertRepo,
		assigner:  assigner,
		logger:    logger,
	}
}

func (uc *BulkResolveUseCase) Execute(ctx context.Context, cmd BulkResolveCommand) (*BulkResolveResult, error) {
	if len(cmd.AlertIDs) == 0 {
		return nil, errors.NewBadRequestError("at least one alert ID is required")
	}
	switch cmd.Action {
	case BulkActionAutoAssign, BulkActionDismiss:
	case BulkActionManualAssign:
		if cmd.RoomID == 0 {
			return nil, errors.NewBadRequestError("room ID is required for manual assignment")
		}
	default:
		return nil, errors.NewBadRequestError(fmt.Sprintf("unknown bulk action: %s", cmd.Action))
	}
	if cmd.ResolvedBy == "" {
		return nil, errors.NewBadRequestError("resolver is required")
	}

	result := &BulkResolveResult{}
	for _, id := range cmd.AlertIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item := uc.resolveOne(ctx, id, cmd)
		if item.Success {
			result.Resolved++
		} else {
			result.Failed++
		}
		result.Items = append(result.Items, item)
	}

	uc.logger.Infow("bulk alert resolution finished",
		"action", cmd.Action,
		"resolved", result.Resolved,
		"failed", result.Failed,
	)
	return result, nil
}

func (uc *BulkResolveUseCase) resolveOne(ctx context.Context, alertID uint, cmd BulkResolveCommand) BulkResolveItem {
	item := BulkResolveItem{AlertID: alertID}

	a, err := uc.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if a == nil {
		item.Error = fmt.Sprintf("alert %d not found", alertID)
		return item
	}
	item.BookingID = a.BookingID()
	if a.IsResolved() {
		item.Error = "alert is already resolved"
		return item
	}

	switch cmd.Action {
	case BulkActionAutoAssign:
		allocationID, err := uc.assigner.AssignAutomatically(ctx, a.BookingID(), cmd.Strategy, cmd.ResolvedBy)
		if err != nil {
			item.Error = err.Error()
			return item
		}
		item.AllocationID = allocationID
		a.LinkAllocation(allocationID)
	case BulkActionManualAssign:
		allocationID, err := uc.assigner.AssignManually(ctx, a.BookingID(), cmd.RoomID, cmd.ResolvedBy)
		if err != nil {
			item.Error = err.Error()
			return item
		}
		item.AllocationID = allocationID
		a.LinkAllocation(allocationID)
	}

	// Assignment paths may have auto-resolved the alert already; re-read to
	// avoid double resolution.
	fresh, err := uc.alertRepo.GetByID(ctx, alertID)
	if err == nil && fresh != nil && fresh.IsResolved() {
		item.Success = true
		return item
	}

	if cmd.Action == BulkActionDismiss {
		err = a.Dismiss(cmd.ResolvedBy, cmd.Notes)
	} else {
		err = a.Resolve(cmd.ResolvedBy, cmd.Notes)
	}
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if err := uc.alertRepo.Update(ctx, a); err != nil {
		item.Error = err.Error()
		return item
	}
	item.Success = true
	return item
}
