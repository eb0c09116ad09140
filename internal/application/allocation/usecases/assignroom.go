package usecases

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/domain/alert"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type AssignRoomCommand struct {
	BookingID         uint
	RoomID            uint
	AssignmentType    string
	Reason            string
	OverrideConflicts bool
	AssignedBy        string
	OriginalRate      decimal.Decimal
	AllocatedRate     decimal.Decimal
}

type AssignRoomResult struct {
	AllocationID uint
	Status       string
	Conflicts    []ConflictRef
	Warnings     []string
}

// AssignRoomUseCase binds a booking to a specific room. Safe to retry with
// identical arguments: re-assigning a booking to the room it already holds is
// a no-op.
type AssignRoomUseCase struct {
	allocRepo alloc.AllocationRepository
	blockRepo alloc.BlockRepository
	alertRepo alert.AlertRepository
	bookings  booking.BookingReader
	rooms     booking.RoomReader
	locks     *services.RoomLocks
	cache     services.SnapshotCache
	logger    logger.Interface
}

func NewAssignRoomUseCase(
	allocRepo alloc.AllocationRepository,
	blockRepo alloc.BlockRepository,
	alertRepo alert.AlertRepository,
	bookings booking.BookingReader,
	rooms booking.RoomReader,
	locks *services.RoomLocks,
	cache services.SnapshotCache,
	logger logger.Interface,
) *AssignRoomUseCase {
	return &AssignRoomUseCase{
		allocRepo: allocRepo,
		blockRepo: blockRepo,
		alertRepo: alertRepo,
		bookings:  bookings,
		rooms:     rooms,
		locks:     locks,
		cache:     cache,
		logger:    logger,
	}
}

// Execute runs the assignment. On a conflict without override the returned
// result still carries the colliding references alongside the Conflict error.
func (uc *AssignRoomUseCase) Execute(ctx context.Context, cmd AssignRoomCommand) (*AssignRoomResult, error) {
	uc.logger.Infow("executing assign room use case",
		"booking_id", cmd.BookingID,
		"room_id", cmd.RoomID,
		"override", cmd.OverrideConflicts,
	)

	assignType, err := uc.validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	b, err := uc.bookings.GetByID(ctx, cmd.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("booking %d not found", cmd.BookingID))
	}
	if !b.IsConfirmed() {
		return nil, errors.NewBusinessRuleError(
			fmt.Sprintf("booking %d is not confirmed (status: %s)", b.ID, b.Status))
	}

	stay, err := stayFromBooking(b.CheckInDate, b.CheckOutDate, b.ShiftDate, b.ShiftType.IsShiftBased())
	if err != nil {
		return nil, errors.NewBadRequestError("booking has an invalid date range", err.Error())
	}

	room, err := uc.rooms.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("room %d not found", cmd.RoomID))
	}
	if !room.IsActive {
		return nil, errors.NewBusinessRuleError(
			fmt.Sprintf("room %s is not available for assignment", room.RoomNumber))
	}

	if existing, err := uc.allocRepo.GetActiveByBookingID(ctx, cmd.BookingID); err != nil {
		return nil, fmt.Errorf("failed to check existing allocation: %w", err)
	} else if existing != nil {
		if existing.RoomID() == cmd.RoomID {
			uc.logger.Infow("booking already assigned to requested room, no-op",
				"booking_id", cmd.BookingID, "allocation_id", existing.ID())
			return &AssignRoomResult{
				AllocationID: existing.ID(),
				Status:       existing.Status().String(),
				Warnings:     []string{"booking is already assigned to this room"},
			}, nil
		}
		return nil, errors.NewConflictError(
			fmt.Sprintf("booking %d already has an active allocation on room %d, use a room change instead",
				cmd.BookingID, existing.RoomID()))
	}

	unlock := uc.locks.Lock(cmd.RoomID)
	defer unlock()

	conflicts, err := findRoomConflicts(ctx, uc.allocRepo, uc.blockRepo, cmd.RoomID, stay, 0)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if len(conflicts) > 0 {
		if !cmd.OverrideConflicts {
			return &AssignRoomResult{Conflicts: conflicts}, errors.NewConflictError(
				fmt.Sprintf("room %s has %d conflicting reservation(s)", room.RoomNumber, len(conflicts)),
				conflictSummary(conflicts))
		}
		for _, c := range conflicts {
			warnings = append(warnings, fmt.Sprintf("overriding conflict with %s", c))
		}
		uc.logger.Warnw("assigning over existing conflicts",
			"booking_id", cmd.BookingID, "room_id", cmd.RoomID, "conflicts", len(conflicts))
	}

	a, err := alloc.NewRoomAllocation(cmd.BookingID, cmd.RoomID, assignType, stay,
		cmd.AssignedBy, b.IsVIP, b.IsGuaranteed, b.RoomTypeID,
		cmd.OriginalRate, cmd.AllocatedRate)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid assignment", err.Error())
	}

	action := alloc.HistoryActionAssigned
	if assignType == vo.AssignmentTypeAuto {
		action = alloc.HistoryActionAutoAssigned
	}
	newRoomID := cmd.RoomID
	entry, err := alloc.NewHistoryEntry(0, cmd.BookingID, action,
		nil, &newRoomID, nil, &stay, "", a.Status().String(),
		a.RateDifference(), cmd.AssignedBy, cmd.Reason)
	if err != nil {
		return nil, fmt.Errorf("failed to build history entry: %w", err)
	}

	// Authoritative conflict guard: the repository re-checks overlaps inside
	// the write transaction and surfaces a Conflict error when the pre-check
	// raced with another writer. Overridden conflicts skip that re-check.
	if err := uc.allocRepo.Create(alloc.WithConflictOverride(ctx, cmd.OverrideConflicts), a, entry); err != nil {
		uc.logger.Errorw("failed to create allocation", "error", err, "booking_id", cmd.BookingID)
		return nil, err
	}

	uc.invalidateAvailability(ctx)
	uc.autoResolveAlert(ctx, cmd.BookingID, a.ID())

	uc.logger.Infow("room assigned",
		"booking_id", cmd.BookingID,
		"room_id", cmd.RoomID,
		"allocation_id", a.ID(),
		"status", a.Status().String(),
	)

	return &AssignRoomResult{
		AllocationID: a.ID(),
		Status:       a.Status().String(),
		Conflicts:    conflicts,
		Warnings:     warnings,
	}, nil
}

func (uc *AssignRoomUseCase) validateCommand(cmd AssignRoomCommand) (vo.AssignmentType, error) {
	if cmd.BookingID == 0 {
		return "", errors.NewValidationError("booking ID is required")
	}
	if cmd.RoomID == 0 {
		return "", errors.NewValidationError("room ID is required")
	}

	assignType := vo.AssignmentType(cmd.AssignmentType)
	if cmd.AssignmentType == "" {
		assignType = vo.AssignmentTypeManual
	}
	if !assignType.IsValid() {
		return "", errors.NewBadRequestError(fmt.Sprintf("unsupported assignment type: %s", cmd.AssignmentType))
	}
	return assignType, nil
}

func (uc *AssignRoomUseCase) invalidateAvailability(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warnw("failed to invalidate availability cache", "error", err)
	}
}

// autoResolveAlert closes the booking's open unassigned alert after a
// successful assignment. Best effort: the assignment itself is already
// committed.
func (uc *AssignRoomUseCase) autoResolveAlert(ctx context.Context, bookingID, allocationID uint) {
	open, err := uc.alertRepo.FindOpenByBookingID(ctx, bookingID)
	if err != nil {
		uc.logger.Warnw("failed to look up open alert", "error", err, "booking_id", bookingID)
		return
	}
	if open == nil || !open.Type().IsUnassigned() {
		return
	}
	open.LinkAllocation(allocationID)
	if err := open.AutoResolve("room assigned"); err != nil {
		uc.logger.Warnw("failed to auto-resolve alert", "error", err, "alert_id", open.ID())
		return
	}
	if err := uc.alertRepo.Update(ctx, open); err != nil {
		uc.logger.Warnw("failed to persist auto-resolved alert", "error", err, "alert_id", open.ID())
	}
}
