package usecases

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/application/allocation/services"
	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type CreateBlockCommand struct {
	RoomID        uint
	StartDate     string // YYYY-MM-DD, inclusive
	EndDate       string // YYYY-MM-DD, inclusive
	BlockType     string
	Reason        string
	CanOverride   bool
	OverrideLevel int
	CreatedBy     string
}

type CreateBlockResult struct {
	BlockID  uint
	RoomID   uint
	Warnings []string
}

// CreateBlockUseCase places an administrative hold on a room. Existing
// allocations overlapping the block are reported as warnings rather than
// rejecting the block: maintenance usually has to be scheduled regardless,
// and the affected bookings are then moved with room changes.
type CreateBlockUseCase struct {
	blockRepo   alloc.BlockRepository
	allocRepo   alloc.AllocationRepository
	historyRepo alloc.HistoryRepository
	rooms       booking.RoomReader
	locks       *services.RoomLocks
	cache       services.SnapshotCache
	logger      logger.Interface
}

func NewCreateBlockUseCase(
	blockRepo alloc.BlockRepository,
	allocRepo alloc.AllocationRepository,
	historyRepo alloc.HistoryRepository,
	rooms booking.RoomReader,
	locks *services.RoomLocks,
	cache services.SnapshotCache,
	logger logger.Interface,
) *CreateBlockUseCase {
	return &CreateBlockUseCase{
		blockRepo:   blockRepo,
		allocRepo:   allocRepo,
		historyRepo: historyRepo,
		rooms:       rooms,
		locks:       locks,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *CreateBlockUseCase) Execute(ctx context.Context, cmd CreateBlockCommand) (*CreateBlockResult, error) {
	uc.logger.Infow("executing create block use case",
		"room_id", cmd.RoomID,
		"block_type", cmd.BlockType,
		"start", cmd.StartDate,
		"end", cmd.EndDate,
	)

	start, end, err := uc.validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	room, err := uc.rooms.GetByID(ctx, cmd.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("room %d not found", cmd.RoomID))
	}

	block, err := alloc.NewRoomBlock(cmd.RoomID, start, end,
		vo.BlockType(cmd.BlockType), cmd.Reason, cmd.CanOverride, cmd.OverrideLevel, cmd.CreatedBy)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid room block", err.Error())
	}

	unlock := uc.locks.Lock(cmd.RoomID)
	defer unlock()

	blocked := block.Range()
	overlapping, err := uc.allocRepo.FindOverlapping(ctx, cmd.RoomID, blocked, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check allocation overlaps: %w", err)
	}
	var warnings []string
	for _, a := range overlapping {
		warnings = append(warnings, fmt.Sprintf(
			"block overlaps allocation %d for booking %d (%s to %s), move the booking before the block starts",
			a.ID(), a.BookingID(),
			a.Stay().Start().Format("2006-01-02"), a.Stay().End().Format("2006-01-02")))
	}

	if err := uc.blockRepo.Create(ctx, block); err != nil {
		uc.logger.Errorw("failed to create room block", "error", err, "room_id", cmd.RoomID)
		return nil, err
	}

	uc.recordHistory(ctx, alloc.HistoryActionBlockCreated, cmd.RoomID, blocked, cmd.CreatedBy, cmd.Reason)
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate availability cache", "error", err)
		}
	}

	uc.logger.Infow("room block created",
		"block_id", block.ID(),
		"room_id", cmd.RoomID,
		"block_type", cmd.BlockType,
		"overlapping_allocations", len(overlapping),
	)

	return &CreateBlockResult{
		BlockID:  block.ID(),
		RoomID:   cmd.RoomID,
		Warnings: warnings,
	}, nil
}

func (uc *CreateBlockUseCase) validateCommand(cmd CreateBlockCommand) (start, end time.Time, err error) {
	if cmd.RoomID == 0 {
		return start, end, errors.NewValidationError("room ID is required")
	}
	if !vo.BlockType(cmd.BlockType).IsValid() {
		return start, end, errors.NewBadRequestError(fmt.Sprintf("unsupported block type: %s", cmd.BlockType))
	}
	start, err = time.Parse("2006-01-02", cmd.StartDate)
	if err != nil {
		return start, end, errors.NewBadRequestError("invalid start date", err.Error())
	}
	end, err = time.Parse("2006-01-02", cmd.EndDate)
	if err != nil {
		return start, end, errors.NewBadRequestError("invalid end date", err.Error())
	}
	if end.Before(start) {
		return start, end, errors.NewBadRequestError("end date cannot precede start date")
	}
	return start, end, nil
}

func (uc *CreateBlockUseCase) recordHistory(ctx context.Context, action alloc.HistoryAction, roomID uint, blocked vo.DateRange, actor, reason string) {
	entry, err := alloc.NewBlockHistoryEntry(action, roomID, &blocked, actor, reason)
	if err != nil {
		uc.logger.Warnw("failed to build block history entry", "error", err)
		return
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		uc.logger.Warnw("failed to record block history", "error", err, "room_id", roomID)
	}
}
