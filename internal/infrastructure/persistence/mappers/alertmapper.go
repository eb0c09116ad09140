package mappers

import (
	"fmt"
	"strings"

	"innkeep/internal/domain/alert"
	vo "innkeep/internal/domain/alert/valueobjects"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/mapper"
)

type AlertMapper interface {
	ToEntity(model *models.AllocationAlertModel) (*alert.AllocationAlert, error)
	ToModel(entity *alert.AllocationAlert) *models.AllocationAlertModel
	ToEntities(models []*models.AllocationAlertModel) ([]*alert.AllocationAlert, error)
}

type alertMapper struct{}

func NewAlertMapper() AlertMapper {
	return &alertMapper{}
}

func (m *alertMapper) ToEntity(model *models.AllocationAlertModel) (*alert.AllocationAlert, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := alert.ReconstructAllocationAlert(
		model.ID,
		model.BookingID,
		model.AllocationID,
		vo.AlertType(model.AlertType),
		vo.Severity(model.Severity),
		model.IsResolved,
		model.ResolvedAt,
		model.ResolvedBy,
		model.ResolutionNotes,
		model.AutoResolved,
		model.EscalationLevel,
		model.EscalatedAt,
		splitList(model.EscalatedTo),
		splitList(model.NotifiedUsers),
		splitList(model.NotificationChannels),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct alert %d: %w", model.ID, err)
	}
	return entity, nil
}

func (m *alertMapper) ToModel(entity *alert.AllocationAlert) *models.AllocationAlertModel {
	if entity == nil {
		return nil
	}

	return &models.AllocationAlertModel{
		ID:                   entity.ID(),
		BookingID:            entity.BookingID(),
		AllocationID:         entity.AllocationID(),
		AlertType:            entity.Type().String(),
		Severity:             entity.Severity().String(),
		IsResolved:           entity.IsResolved(),
		ResolvedAt:           entity.ResolvedAt(),
		ResolvedBy:           entity.ResolvedBy(),
		ResolutionNotes:      entity.ResolutionNotes(),
		AutoResolved:         entity.AutoResolved(),
		EscalationLevel:      entity.EscalationLevel(),
		EscalatedAt:          entity.EscalatedAt(),
		EscalatedTo:          joinList(entity.EscalatedTo()),
		NotifiedUsers:        joinList(entity.NotifiedUsers()),
		NotificationChannels: joinList(entity.NotificationChannels()),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}
}

func (m *alertMapper) ToEntities(modelList []*models.AllocationAlertModel) ([]*alert.AllocationAlert, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.AllocationAlertModel) uint { return model.ID })
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}
