package mappers

import (
	"fmt"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/models"
)

type RuleMapper interface {
	ToEntity(model *models.AllocationRuleModel) (*alloc.AllocationRule, error)
	ToModel(rule *alloc.AllocationRule) *models.AllocationRuleModel
	ToEntities(models []*models.AllocationRuleModel) ([]*alloc.AllocationRule, error)
}

type ruleMapper struct{}

func NewRuleMapper() RuleMapper {
	return &ruleMapper{}
}

func (m *ruleMapper) ToEntity(model *models.AllocationRuleModel) (*alloc.AllocationRule, error) {
	if model == nil {
		return nil, nil
	}

	roomTypes, err := splitUints(model.RoomTypes)
	if err != nil {
		return nil, fmt.Errorf("rule %d has malformed room types: %w", model.ID, err)
	}
	preferFloors, err := splitInts(model.PreferFloors)
	if err != nil {
		return nil, fmt.Errorf("rule %d has malformed preferred floors: %w", model.ID, err)
	}

	return &alloc.AllocationRule{
		ID:            model.ID,
		Name:          model.Name,
		Priority:      model.Priority,
		Enabled:       model.Enabled,
		SchemaVersion: model.SchemaVersion,
		Conditions: alloc.RuleConditions{
			MinDaysAdvance: model.MinDaysAdvance,
			MinNights:      model.MinNights,
			RoomTypes:      roomTypes,
			VIPOnly:        model.VIPOnly,
		},
		Action: alloc.RuleAction{
			ScoreAdjustment: model.ScoreAdjustment,
			PreferFloors:    preferFloors,
		},
	}, nil
}

func (m *ruleMapper) ToModel(rule *alloc.AllocationRule) *models.AllocationRuleModel {
	if rule == nil {
		return nil
	}

	return &models.AllocationRuleModel{
		ID:              rule.ID,
		Name:            rule.Name,
		Priority:        rule.Priority,
		Enabled:         rule.Enabled,
		SchemaVersion:   rule.SchemaVersion,
		MinDaysAdvance:  rule.Conditions.MinDaysAdvance,
		MinNights:       rule.Conditions.MinNights,
		RoomTypes:       joinUints(rule.Conditions.RoomTypes),
		VIPOnly:         rule.Conditions.VIPOnly,
		ScoreAdjustment: rule.Action.ScoreAdjustment,
		PreferFloors:    joinInts(rule.Action.PreferFloors),
	}
}

func (m *ruleMapper) ToEntities(modelList []*models.AllocationRuleModel) ([]*alloc.AllocationRule, error) {
	out := make([]*alloc.AllocationRule, 0, len(modelList))
	for _, model := range modelList {
		rule, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}
