package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
)

type RuleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RuleMapper
}

func NewRuleRepository(db *gorm.DB) alloc.RuleRepository {
	return &RuleRepositoryImpl{
		db:     db,
		mapper: mappers.NewRuleMapper(),
	}
}

func (r *RuleRepositoryImpl) ListEnabled(ctx context.Context) ([]*alloc.AllocationRule, error) {
	var modelList []*models.AllocationRuleModel
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("priority DESC, id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled rules: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
