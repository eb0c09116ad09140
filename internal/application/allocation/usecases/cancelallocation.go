package usecases

import (
	"context"
	"fmt"

	"innkeep/internal/application/allocation/services"
	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type CancelAllocationCommand struct {
	AllocationID uint
	Reason       string
	CancelledBy  string
}

type CancelAllocationResult struct {
	AllocationID uint
	RoomID       uint
}

// CancelAllocationUseCase releases a room. The allocation row stays behind as
// history with the cancelled status.
type CancelAllocationUseCase struct {
	allocRepo   alloc.AllocationRepository
	historyRepo alloc.HistoryRepository
	cache       services.SnapshotCache
	logger      logger.Interface
}

func NewCancelAllocationUseCase(
	allocRepo alloc.AllocationRepository,
	historyRepo alloc.HistoryRepository,
	cache services.SnapshotCache,
	logger logger.Interface,
) *CancelAllocationUseCase {
	return &CancelAllocationUseCase{
		allocRepo:   allocRepo,
		historyRepo: historyRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *CancelAllocationUseCase) Execute(ctx context.Context, cmd CancelAllocationCommand) (*CancelAllocationResult, error) {
	uc.logger.Infow("executing cancel allocation use case", "allocation_id", cmd.AllocationID)

	if cmd.AllocationID == 0 {
		return nil, errors.NewValidationError("allocation ID is required")
	}

	a, err := uc.allocRepo.GetByID(ctx, cmd.AllocationID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("allocation %d not found", cmd.AllocationID))
	}

	previousStatus := a.Status().String()
	if err := a.Cancel(cmd.CancelledBy, cmd.Reason); err != nil {
		return nil, errors.NewBusinessRuleError("allocation cannot be cancelled", err.Error())
	}
	if err := uc.allocRepo.Update(ctx, a); err != nil {
		uc.logger.Errorw("failed to update cancelled allocation", "error", err, "allocation_id", cmd.AllocationID)
		return nil, err
	}

	uc.recordHistory(ctx, a, previousStatus, cmd.CancelledBy, cmd.Reason)
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate availability cache", "error", err)
		}
	}

	uc.logger.Infow("allocation cancelled",
		"allocation_id", a.ID(), "room_id", a.RoomID(), "reason", cmd.Reason)

	return &CancelAllocationResult{AllocationID: a.ID(), RoomID: a.RoomID()}, nil
}

func (uc *CancelAllocationUseCase) recordHistory(ctx context.Context, a *alloc.RoomAllocation, previousStatus, actor, reason string) {
	roomID := a.RoomID()
	stay := a.Stay()
	entry, err := alloc.NewHistoryEntry(a.ID(), a.BookingID(), alloc.HistoryActionCancelled,
		&roomID, nil, &stay, nil, previousStatus, a.Status().String(),
		a.RateDifference(), actor, reason)
	if err != nil {
		uc.logger.Warnw("failed to build history entry", "error", err)
		return
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		uc.logger.Warnw("failed to record cancellation history", "error", err, "allocation_id", a.ID())
	}
}
