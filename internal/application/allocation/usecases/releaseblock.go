package usecases

import (
	"context"
	"fmt"

	"innkeep/internal/application/allocation/services"
	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/shared/errors"
	"innkeep/internal/shared/logger"
)

type ReleaseBlockCommand struct {
	BlockID    uint
	Reason     string
	ReleasedBy string
}

type ReleaseBlockResult struct {
	BlockID uint
	RoomID  uint
}

// ReleaseBlockUseCase deactivates a block. Allocations are never touched: a
// release only frees the interval for future assignments.
type ReleaseBlockUseCase struct {
	blockRepo   alloc.BlockRepository
	historyRepo alloc.HistoryRepository
	cache       services.SnapshotCache
	logger      logger.Interface
}

func NewReleaseBlockUseCase(
	blockRepo alloc.BlockRepository,
	historyRepo alloc.HistoryRepository,
	cache services.SnapshotCache,
	logger logger.Interface,
) *ReleaseBlockUseCase {
	return &ReleaseBlockUseCase{
		blockRepo:   blockRepo,
		historyRepo: historyRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (uc *ReleaseBlockUseCase) Execute(ctx context.Context, cmd ReleaseBlockCommand) (*ReleaseBlockResult, error) {
	uc.logger.Infow("executing release block use case", "block_id", cmd.BlockID)

	if cmd.BlockID == 0 {
		return nil, errors.NewValidationError("block ID is required")
	}

	block, err := uc.blockRepo.GetByID(ctx, cmd.BlockID)
	if err != nil {
		return nil, err
	}
	if block == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("block %d not found", cmd.BlockID))
	}

	if err := block.Release(cmd.ReleasedBy); err != nil {
		return nil, errors.NewBusinessRuleError("block cannot be released", err.Error())
	}
	if err := uc.blockRepo.Update(ctx, block); err != nil {
		uc.logger.Errorw("failed to update released block", "error", err, "block_id", cmd.BlockID)
		return nil, err
	}

	uc.recordHistory(ctx, block, cmd.ReleasedBy, cmd.Reason)
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warnw("failed to invalidate availability cache", "error", err)
		}
	}

	uc.logger.Infow("room block released",
		"block_id", block.ID(), "room_id", block.RoomID(), "released_by", cmd.ReleasedBy)

	return &ReleaseBlockResult{BlockID: block.ID(), RoomID: block.RoomID()}, nil
}

func (uc *ReleaseBlockUseCase) recordHistory(ctx context.Context, block *alloc.RoomBlock, actor, reason string) {
	blocked := block.Range()
	entry, err := alloc.NewBlockHistoryEntry(alloc.HistoryActionBlockReleased, block.RoomID(), &blocked, actor, reason)
	if err != nil {
		uc.logger.Warnw("failed to build block history entry", "error", err)
		return
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		uc.logger.Warnw("failed to record block history", "error", err, "block_id", block.ID())
	}
}
