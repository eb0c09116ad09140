package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/errors"
)

type BlockRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BlockMapper
}

func NewBlockRepository(db *gorm.DB) alloc.BlockRepository {
	return &BlockRepositoryImpl{
		db:     db,
		mapper: mappers.NewBlockMapper(),
	}
}

func (r *BlockRepositoryImpl) Create(ctx context.Context, block *alloc.RoomBlock) error {
	model := r.mapper.ToModel(block)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create room block: %w", err)
	}
	if err := block.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set block ID: %w", err)
	}
	return nil
}

func (r *BlockRepositoryImpl) Update(ctx context.Context, block *alloc.RoomBlock) error {
	model := r.mapper.ToModel(block)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update room block: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("room block not found")
	}
	return nil
}

func (r *BlockRepositoryImpl) GetByID(ctx context.Context, id uint) (*alloc.RoomBlock, error) {
	var model models.RoomBlockModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room block by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *BlockRepositoryImpl) FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint) ([]*alloc.RoomBlock, error) {
	var modelList []*models.RoomBlockModel
	// Block dates are stored inclusive; [from, to) overlaps when the block
	// starts before the exclusive end and ends on or after the start.
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date < ? AND end_date >= ?", to, from)
	if len(roomIDs) > 0 {
		query = query.Where("room_id IN ?", roomIDs)
	}
	if err := query.Order("room_id, start_date").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find active blocks in range: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
