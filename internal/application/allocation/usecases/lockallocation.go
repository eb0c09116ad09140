package usecases

import (
	"context"
	"fmt"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type LockAllocationCommand struct {
	AllocationID uint
	LockedBy     string
}

type LockAllocationResult struct {
	AllocationID uint
	Status       string
}

// LockAllocationUseCase pins an allocation once the booking is guaranteed or
// confirmed externally, excluding it from automatic reshuffling.
type LockAllocationUseCase struct {
	allocRepo   alloc.AllocationRepository
	historyRepo alloc.HistoryRepository
	logger      logger.Interface
}

func NewLockAllocationUseCase(
	allocRepo alloc.AllocationRepository,
	historyRepo alloc.HistoryRepository,
	logger logger.Interface,
) *LockAllocationUseCase {
	return &LockAllocationUseCase{
		allocRepo:   allocRepo,
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (uc *LockAllocationUseCase) Execute(ctx context.Context, cmd LockAllocationCommand) (*LockAllocationResult, error) {
	uc.logger.Infow("executing lock allocation use case", "allocation_id", cmd.AllocationID)

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
	if err := a.Lock(); err != nil {
		return nil, errors.NewBusinessRuleError("allocation cannot be locked", err.Error())
	}
	if err := uc.allocRepo.Update(ctx, a); err != nil {
		uc.logger.Errorw("failed to update locked allocation", "error", err, "allocation_id", cmd.AllocationID)
		return nil, err
	}

	uc.recordHistory(ctx, a, previousStatus, cmd.LockedBy)

	return &LockAllocationResult{
		AllocationID: a.ID(),
		Status:       a.Status().String(),
	}, nil
}

func (uc *LockAllocationUseCase) recordHistory(ctx context.Context, a *alloc.RoomAllocation, previousStatus, actor string) {
	roomID := a.RoomID()
	stay := a.Stay()
	entry, err := alloc.NewHistoryEntry(a.ID(), a.BookingID(), alloc.HistoryActionLocked,
		&roomID, &roomID, &stay, &stay, previousStatus, a.Status().String(),
		a.RateDifference(), actor, "allocation locked")
	if err != nil {
		uc.logger.Warnw("failed to build history entry", "error", err)
		return
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		uc.logger.Warnw("failed to record lock history", "error", err, "allocation_id", a.ID())
	}
}
