package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/errors"
)

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PreferenceMapper
}

func NewPreferenceRepository(db *gorm.DB) alloc.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mappers.NewPreferenceMapper(),
	}
}

func (r *PreferenceRepositoryImpl) GetByGuestID(ctx context.Context, guestID uint) (*alloc.GuestRoomPreferences, error) {
	var model models.GuestPreferenceModel
	err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError(fmt.Sprintf("no preferences for guest %d", guestID))
		}
		return nil, fmt.Errorf("failed to get guest preferences: %w", err)
	}
	return r.mapper.ToEntity(&model)
}
