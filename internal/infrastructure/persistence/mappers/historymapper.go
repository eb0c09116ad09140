package mappers

import (
	"fmt"
	"time"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/mapper"
)

type HistoryMapper interface {
	ToEntity(model *models.AllocationHistoryModel) (*alloc.AllocationHistory, error)
	ToModel(entry *alloc.AllocationHistory) *models.AllocationHistoryModel
	ToEntities(models []*models.AllocationHistoryModel) ([]*alloc.AllocationHistory, error)
}

type historyMapper struct{}

func NewHistoryMapper() HistoryMapper {
	return &historyMapper{}
}

func (m *historyMapper) ToEntity(model *models.AllocationHistoryModel) (*alloc.AllocationHistory, error) {
	if model == nil {
		return nil, nil
	}

	previousStay, err := optionalRange(model.PreviousCheckIn, model.PreviousCheckOut)
	if err != nil {
		return nil, fmt.Errorf("history %d has an invalid previous stay: %w", model.ID, err)
	}
	newStay, err := optionalRange(model.NewCheckIn, model.NewCheckOut)
	if err != nil {
		return nil, fmt.Errorf("history %d has an invalid new stay: %w", model.ID, err)
	}

	return alloc.ReconstructHistoryEntry(
		model.ID,
		model.AllocationID,
		model.BookingID,
		alloc.HistoryAction(model.Action),
		model.PreviousRoomID,
		model.NewRoomID,
		previousStay,
		newStay,
		model.PreviousStatus,
		model.NewStatus,
		model.PriceAdjustment,
		model.Actor,
		model.Reason,
		model.CreatedAt,
	), nil
}

func (m *historyMapper) ToModel(entry *alloc.AllocationHistory) *models.AllocationHistoryModel {
	if entry == nil {
		return nil
	}

	model := &models.AllocationHistoryModel{
		ID:              entry.ID(),
		AllocationID:    entry.AllocationID(),
		BookingID:       entry.BookingID(),
		Action:          string(entry.Action()),
		PreviousRoomID:  entry.PreviousRoomID(),
		NewRoomID:       entry.NewRoomID(),
		PreviousStatus:  entry.PreviousStatus(),
		NewStatus:       entry.NewStatus(),
		PriceAdjustment: entry.PriceAdjustment(),
		Actor:           entry.Actor(),
		Reason:          entry.Reason(),
		CreatedAt:       entry.CreatedAt(),
	}
	if r := entry.PreviousStay(); r != nil {
		start, end := r.Start(), r.End()
		model.PreviousCheckIn, model.PreviousCheckOut = &start, &end
	}
	if r := entry.NewStay(); r != nil {
		start, end := r.Start(), r.End()
		model.NewCheckIn, model.NewCheckOut = &start, &end
	}
	return model
}

func (m *historyMapper) ToEntities(modelList []*models.AllocationHistoryModel) ([]*alloc.AllocationHistory, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.AllocationHistoryModel) uint { return model.ID })
}

func optionalRange(start, end *time.Time) (*vo.DateRange, error) {
	if start == nil || end == nil {
		return nil, nil
	}
	r, err := vo.NewDateRange(*start, *end)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
