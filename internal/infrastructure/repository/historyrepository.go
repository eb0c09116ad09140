package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
)

type HistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.HistoryMapper
}

func NewHistoryRepository(db *gorm.DB) alloc.HistoryRepository {
	return &HistoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewHistoryMapper(),
	}
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, entry *alloc.AllocationHistory) error {
	model := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set history ID: %w", err)
	}
	return nil
}

func (r *HistoryRepositoryImpl) ListByAllocation(ctx context.Context, allocationID uint) ([]*alloc.AllocationHistory, error) {
	var modelList []*models.AllocationHistoryModel
	err := r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		Order("created_at ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history by allocation: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *HistoryRepositoryImpl) ListByBooking(ctx context.Context, bookingID uint) ([]*alloc.AllocationHistory, error) {
	var modelList []*models.AllocationHistoryModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list history by booking: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
