package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"innkeep/internal/domain/alert"
	vo "innkeep/internal/domain/alert/valueobjects"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/errors"
)

// severityOrder ranks severities for SQL-side filtering; it mirrors
// Severity.Rank.
var severityOrder = map[vo.Severity][]string{
	vo.SeverityInfo: {
		vo.SeverityInfo.String(), vo.SeverityWarning.String(),
		vo.SeverityCritical.String(), vo.SeverityEmergency.String(),
	},
	vo.SeverityWarning: {
		vo.SeverityWarning.String(), vo.SeverityCritical.String(),
		vo.SeverityEmergency.String(),
	},
	vo.SeverityCritical: {
		vo.SeverityCritical.String(), vo.SeverityEmergency.String(),
	},
	vo.SeverityEmergency: {vo.SeverityEmergency.String()},
}

type AlertRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AlertMapper
}

func NewAlertRepository(db *gorm.DB) alert.AlertRepository {
	return &AlertRepositoryImpl{
		db:     db,
		mapper: mappers.NewAlertMapper(),
	}
}

func (r *AlertRepositoryImpl) Create(ctx context.Context, a *alert.AllocationAlert) error {
	model := r.mapper.ToModel(a)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set alert ID: %w", err)
	}
	return nil
}

func (r *AlertRepositoryImpl) Update(ctx context.Context, a *alert.AllocationAlert) error {
	model := r.mapper.ToModel(a)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("alert not found")
	}
	return nil
}

func (r *AlertRepositoryImpl) GetByID(ctx context.Context, id uint) (*alert.AllocationAlert, error) {
	var model models.AllocationAlertModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get alert by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AlertRepositoryImpl) FindOpenByBookingID(ctx context.Context, bookingID uint) (*alert.AllocationAlert, error) {
	var model models.AllocationAlertModel
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND is_resolved = ?", bookingID, false).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find open alert by booking ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AlertRepositoryImpl) ListUnresolved(ctx context.Context, limit, offset int) ([]*alert.AllocationAlert, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AllocationAlertModel{}).
		Where("is_resolved = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count unresolved alerts: %w", err)
	}

	var modelList []*models.AllocationAlertModel
	// Most urgent first, then oldest.
	query = query.Order(severityOrderClause()).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list unresolved alerts: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *AlertRepositoryImpl) ListStale(ctx context.Context, minSeverity vo.Severity, createdBefore time.Time) ([]*alert.AllocationAlert, error) {
	severities, ok := severityOrder[minSeverity]
	if !ok {
		return nil, fmt.Errorf("unknown severity: %s", minSeverity)
	}

	var modelList []*models.AllocationAlertModel
	err := r.db.WithContext(ctx).
		Where("is_resolved = ? AND severity IN ? AND created_at < ?", false, severities, createdBefore).
		Order("created_at ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale alerts: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func severityOrderClause() string {
	return fmt.Sprintf("CASE severity WHEN '%s' THEN 0 WHEN '%s' THEN 1 WHEN '%s' THEN 2 ELSE 3 END",
		vo.SeverityEmergency.String(), vo.SeverityCritical.String(), vo.SeverityWarning.String())
}
