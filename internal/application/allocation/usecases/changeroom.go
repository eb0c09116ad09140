package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type ChangeRoomCommand struct {
	AllocationID      uint
	NewRoomID         uint
	Reason            string
	ApplyCharges      bool
	OverrideConflicts bool
	NewRate           decimal.Decimal
	ChangedBy         string
}

type ChangeRoomResult struct {
	AllocationID   uint
	PreviousRoomID uint
	NewRoomID      uint
	RateAdjustment decimal.Decimal
	HistoryID      uint
	Conflicts      []ConflictRef
	Warnings       []string
}

// ChangeRoomUseCase moves an active allocation to a different room. The old
// row is cancelled and kept as history; the replacement points back via its
// previous room ID.
type ChangeRoomUseCase struct {
	allocRepo alloc.AllocationRepository
	blockRepo alloc.BlockRepository
	rooms     booking.RoomReader
	locks     *services.RoomLocks
	cache     services.SnapshotCache
	logger    logger.Interface
}

func NewChangeRoomUseCase(
	allocRepo alloc.AllocationRepository,
	blockRepo alloc.BlockRepository,
	rooms booking.RoomReader,
	locks *services.RoomLocks,
	cache services.SnapshotCache,
	logger logger.Interface,
) *ChangeRoomUseCase {
	return &ChangeRoomUseCase{
		allocRepo: allocRepo,
		blockRepo: blockRepo,
		rooms:     rooms,
		locks:     locks,
		cache:     cache,
		logger:    logger,
	}
}

func (uc *ChangeRoomUseCase) Execute(ctx context.Context, cmd ChangeRoomCommand) (*ChangeRoomResult, error) {
	uc.logger.Infow("executing change room use case",
		"allocation_id", cmd.AllocationID,
		"new_room_id", cmd.NewRoomID,
		"apply_charges", cmd.ApplyCharges,
	)

	if err := uc.validateCommand(cmd); err != nil {
		return nil, err
	}

	old, err := uc.allocRepo.GetByID(ctx, cmd.AllocationID)
	if err != nil {
		return nil, err
	}
	if old == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("allocation %d not found", cmd.AllocationID))
	}
	if !old.IsActive() {
		return nil, errors.NewNotFoundError(
			fmt.Sprintf("allocation %d is no longer active (status: %s)", cmd.AllocationID, old.Status()))
	}

	room, err := uc.rooms.GetByID(ctx, cmd.NewRoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("room %d not found", cmd.NewRoomID))
	}
	if !room.IsActive {
		return nil, errors.NewBusinessRuleError(
			fmt.Sprintf("room %s is not available for assignment", room.RoomNumber))
	}

	unlock := uc.locks.Lock(cmd.NewRoomID)
	defer unlock()

	stay := old.Stay()
	conflicts, err := findRoomConflicts(ctx, uc.allocRepo, uc.blockRepo, cmd.NewRoomID, stay, old.ID())
	if err != nil {
		return nil, err
	}

	var warnings []string
	if len(conflicts) > 0 {
		if !cmd.OverrideConflicts {
			return &ChangeRoomResult{Conflicts: conflicts}, errors.NewConflictError(
				fmt.Sprintf("room %s has %d conflicting reservation(s)", room.RoomNumber, len(conflicts)),
				conflictSummary(conflicts))
		}
		for _, c := range conflicts {
			warnings = append(warnings, fmt.Sprintf("overriding conflict with %s", c))
		}
	}

	previousRoomID := old.RoomID()
	previousStatus := old.Status().String()

	replacement, err := old.ChangeTo(cmd.NewRoomID, cmd.NewRate, cmd.ApplyCharges, cmd.ChangedBy, cmd.Reason)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid room change", err.Error())
	}

	newRoomID := cmd.NewRoomID
	entry, err := alloc.NewHistoryEntry(0, old.BookingID(), alloc.HistoryActionChanged,
		&previousRoomID, &newRoomID, &stay, &stay,
		previousStatus, replacement.Status().String(),
		replacement.RateDifference(), cmd.ChangedBy, cmd.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to build history entry: %w", err)
	}

	if err := uc.allocRepo.Supersede(alloc.WithConflictOverride(ctx, cmd.OverrideConflicts), old, replacement, entry); err != nil {
		uc.logger.Errorw("failed to supersede allocation",
			"error", err, "allocation_id", cmd.AllocationID, "new_room_id", cmd.NewRoomID)
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate availability cache", "error", err)
		}
	}

	uc.logger.Infow("room changed",
		"booking_id", old.BookingID(),
		"previous_room_id", previousRoomID,
		"new_room_id", cmd.NewRoomID,
		"allocation_id", replacement.ID(),
		"rate_adjustment", replacement.RateDifference().String(),
	)

	return &ChangeRoomResult{
		AllocationID:   replacement.ID(),
		PreviousRoomID: previousRoomID,
		NewRoomID:      cmd.NewRoomID,
		RateAdjustment: replacement.RateDifference(),
		HistoryID:      entry.ID(),
		Conflicts:      conflicts,
		Warnings:       warnings,
	}, nil
}

func (uc *ChangeRoomUseCase) validateCommand(cmd ChangeRoomCommand) error {
	if cmd.AllocationID == 0 {
		return errors.NewValidationError("allocation ID is required")
	}
	if cmd.NewRoomID == 0 {
		return errors.NewValidationError("new room ID is required")
	}
	if cmd.ApplyCharges && cmd.NewRate.IsNegative() {
		return errors.NewValidationError("new rate cannot be negative")
	}
	return nil
}
