package mappers

import (
	"fmt"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/mapper"
)

type BlockMapper interface {
	ToEntity(model *models.RoomBlockModel) (*alloc.RoomBlock, error)
	ToModel(entity *alloc.RoomBlock) *models.RoomBlockModel
	ToEntities(models []*models.RoomBlockModel) ([]*alloc.RoomBlock, error)
}

type blockMapper struct{}

func NewBlockMapper() BlockMapper {
	return &blockMapper{}
}

func (m *blockMapper) ToEntity(model *models.RoomBlockModel) (*alloc.RoomBlock, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := alloc.ReconstructRoomBlock(
		model.ID,
		model.RoomID,
		model.StartDate,
		model.EndDate,
		vo.BlockType(model.BlockType),
		model.BlockReason,
		model.CanOverride,
		model.OverrideLevel,
		model.IsActive,
		model.CreatedBy,
		model.CreatedAt,
		model.ReleasedBy,
		model.ReleasedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct block %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m *blockMapper) ToModel(entity *alloc.RoomBlock) *models.RoomBlockModel {
	if entity == nil {
		return nil
	}

	return &models.RoomBlockModel{
		ID:            entity.ID(),
		RoomID:        entity.RoomID(),
		StartDate:     entity.StartDate(),
		EndDate:       entity.EndDate(),
		BlockType:     entity.BlockType().String(),
		BlockReason:   entity.BlockReason(),
		CanOverride:   entity.CanOverride(),
		OverrideLevel: entity.OverrideLevel(),
		IsActive:      entity.IsActive(),
		CreatedBy:     entity.CreatedBy(),
		CreatedAt:     entity.CreatedAt(),
		ReleasedBy:    entity.ReleasedBy(),
		ReleasedAt:    entity.ReleasedAt(),
	}
}

func (m *blockMapper) ToEntities(modelList []*models.RoomBlockModel) ([]*alloc.RoomBlock, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.RoomBlockModel) uint { return model.ID })
}
