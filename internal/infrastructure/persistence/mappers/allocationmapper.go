package mappers

import (
	"fmt"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/mapper"
)

type AllocationMapper interface {
	ToEntity(model *models.RoomAllocationModel) (*alloc.RoomAllocation, error)
	ToModel(entity *alloc.RoomAllocation) *models.RoomAllocationModel
	ToEntities(models []*models.RoomAllocationModel) ([]*alloc.RoomAllocation, error)
}

type allocationMapper struct{}

func NewAllocationMapper() AllocationMapper {
	return &allocationMapper{}
}

func (m *allocationMapper) ToEntity(model *models.RoomAllocationModel) (*alloc.RoomAllocation, error) {
	if model == nil {
		return nil, nil
	}

	stay, err := vo.NewDateRange(model.CheckInDate, model.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("allocation %d has an invalid stay: %w", model.ID, err)
	}

	entity, err := alloc.ReconstructRoomAllocation(
		model.ID,
		model.BookingID,
		model.RoomID,
		vo.AssignmentType(model.AssignmentType),
		vo.AssignmentStatus(model.AssignmentStatus),
		stay,
		model.IsVIP,
		model.IsGuaranteed,
		model.RequiresInspection,
		model.OriginalRoomTypeID,
		model.OriginalRate,
		model.AllocatedRate,
		model.AssignedAt,
		model.AssignedBy,
		model.PreviousRoomID,
		model.ChangedAt,
		model.ChangedBy,
		model.ChangeReason,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct allocation %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m *allocationMapper) ToModel(entity *alloc.RoomAllocation) *models.RoomAllocationModel {
	if entity == nil {
		return nil
	}

	return &models.RoomAllocationModel{
		ID:                 entity.ID(),
		BookingID:          entity.BookingID(),
		RoomID:             entity.RoomID(),
		AssignmentType:     string(entity.AssignmentType()),
		AssignmentStatus:   entity.Status().String(),
		CheckInDate:        entity.Stay().Start(),
		CheckOutDate:       entity.Stay().End(),
		IsVIP:              entity.IsVIP(),
		IsGuaranteed:       entity.IsGuaranteed(),
		RequiresInspection: entity.RequiresInspection(),
		OriginalRoomTypeID: entity.OriginalRoomTypeID(),
		OriginalRate:       entity.OriginalRate(),
		AllocatedRate:      entity.AllocatedRate(),
		AssignedAt:         entity.AssignedAt(),
		AssignedBy:         entity.AssignedBy(),
		PreviousRoomID:     entity.PreviousRoomID(),
		ChangedAt:          entity.ChangedAt(),
		ChangedBy:          entity.ChangedBy(),
		ChangeReason:       entity.ChangeReason(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
}

func (m *allocationMapper) ToEntities(modelList []*models.RoomAllocationModel) ([]*alloc.RoomAllocation, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.RoomAllocationModel) uint { return model.ID })
}
