package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	alloc "innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
	"innkeep/internal/shared/db"
	"innkeep/internal/shared/errors"
)

// activeStatuses are the assignment statuses that occupy a room.
var activeStatuses = []string{
	vo.AssignmentStatusAssigned.String(),
	vo.AssignmentStatusLocked.String(),
}

type AllocationRepositoryImpl struct {
	tm     *db.TransactionManager
	mapper mappers.AllocationMapper
	histo  mappers.HistoryMapper
}

func NewAllocationRepository(tm *db.TransactionManager) alloc.AllocationRepository {
	return &AllocationRepositoryImpl{
		tm:     tm,
		mapper: mappers.NewAllocationMapper(),
		histo:  mappers.NewHistoryMapper(),
	}
}

// Create inserts the allocation and its history entry in one transaction. The
// overlap re-check runs inside that transaction so the storage layer, not the
// in-process pre-check, has the final word. An operator override carried in
// the context skips the re-check.
func (r *AllocationRepositoryImpl) Create(ctx context.Context, a *alloc.RoomAllocation, entry *alloc.AllocationHistory) error {
	return r.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := r.tm.GetTx(txCtx)

		if !alloc.ConflictOverridden(ctx) {
			if err := r.guardOverlap(tx, a.RoomID(), a.Stay(), 0); err != nil {
				return err
			}
		}

		model := r.mapper.ToModel(a)
		if err := tx.Create(model).Error; err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError(
					fmt.Sprintf("room %d already has an identical active stay", a.RoomID()))
			}
			return fmt.Errorf("failed to create allocation: %w", err)
		}
		if err := a.SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set allocation ID: %w", err)
		}

		if entry != nil {
			entry.SetAllocationID(model.ID)
			if err := r.insertHistory(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// Supersede cancels old and inserts replacement atomically, used by room
// changes. The replacement is conflict-checked excluding the row being
// superseded.
func (r *AllocationRepositoryImpl) Supersede(ctx context.Context, old, replacement *alloc.RoomAllocation, entry *alloc.AllocationHistory) error {
	return r.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := r.tm.GetTx(txCtx)

		if !alloc.ConflictOverridden(ctx) {
			if err := r.guardOverlap(tx, replacement.RoomID(), replacement.Stay(), old.ID()); err != nil {
				return err
			}
		}

		oldModel := r.mapper.ToModel(old)
		result := tx.Model(&models.RoomAllocationModel{}).
			Where("id = ? AND assignment_status IN ?", oldModel.ID, activeStatuses).
			Updates(map[string]interface{}{
				"assignment_status": oldModel.AssignmentStatus,
				"changed_at":        oldModel.ChangedAt,
				"changed_by":        oldModel.ChangedBy,
				"change_reason":     oldModel.ChangeReason,
				"updated_at":        oldModel.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel superseded allocation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another writer already cancelled or changed it.
			return errors.NewConflictError(
				fmt.Sprintf("allocation %d was modified concurrently", old.ID()))
		}

		newModel := r.mapper.ToModel(replacement)
		if err := tx.Create(newModel).Error; err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError(
					fmt.Sprintf("room %d already has an identical active stay", replacement.RoomID()))
			}
			return fmt.Errorf("failed to create replacement allocation: %w", err)
		}
		if err := replacement.SetID(newModel.ID); err != nil {
			return fmt.Errorf("failed to set replacement allocation ID: %w", err)
		}

		if entry != nil {
			entry.SetAllocationID(newModel.ID)
			if err := r.insertHistory(tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AllocationRepositoryImpl) Update(ctx context.Context, a *alloc.RoomAllocation) error {
	model := r.mapper.ToModel(a)
	result := r.tm.GetTx(ctx).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update allocation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("allocation not found")
	}
	return nil
}

func (r *AllocationRepositoryImpl) GetByID(ctx context.Context, id uint) (*alloc.RoomAllocation, error) {
	var model models.RoomAllocationModel
	if err := r.tm.GetTx(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allocation by ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AllocationRepositoryImpl) GetActiveByBookingID(ctx context.Context, bookingID uint) (*alloc.RoomAllocation, error) {
	var model models.RoomAllocationModel
	err := r.tm.GetTx(ctx).
		Where("booking_id = ? AND assignment_status IN ?", bookingID, activeStatuses).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active allocation by booking ID: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *AllocationRepositoryImpl) FindOverlapping(ctx context.Context, roomID uint, stay vo.DateRange, excludeID uint) ([]*alloc.RoomAllocation, error) {
	var modelList []*models.RoomAllocationModel
	query := r.tm.GetTx(ctx).
		Where("room_id = ? AND assignment_status IN ?", roomID, activeStatuses).
		Where("check_in_date < ? AND check_out_date > ?", stay.End(), stay.Start())
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping allocations: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *AllocationRepositoryImpl) FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint, includePreAssigned bool) ([]*alloc.RoomAllocation, error) {
	statuses := activeStatuses
	if includePreAssigned {
		statuses = append([]string{vo.AssignmentStatusPreAssigned.String()}, activeStatuses...)
	}

	var modelList []*models.RoomAllocationModel
	query := r.tm.GetTx(ctx).
		Where("assignment_status IN ?", statuses).
		Where("check_in_date < ? AND check_out_date > ?", to, from)
	if len(roomIDs) > 0 {
		query = query.Where("room_id IN ?", roomIDs)
	}
	if err := query.Order("room_id, check_in_date").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to find allocations in range: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *AllocationRepositoryImpl) LastAssignmentTimes(ctx context.Context, roomIDs []uint) (map[uint]time.Time, error) {
	type row struct {
		RoomID     uint
		AssignedAt time.Time
	}
	var rows []row
	// The max is reduced in Go: an SQL MAX() loses the column type on the
	// sqlite driver and scans back as a string.
	query := r.tm.GetTx(ctx).
		Model(&models.RoomAllocationModel{}).
		Select("room_id, assigned_at").
		Where("assignment_status <> ?", vo.AssignmentStatusCancelled.String())
	if len(roomIDs) > 0 {
		query = query.Where("room_id IN ?", roomIDs)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load last assignment times: %w", err)
	}

	out := make(map[uint]time.Time, len(rows))
	for _, r := range rows {
		if cur, ok := out[r.RoomID]; !ok || r.AssignedAt.After(cur) {
			out[r.RoomID] = r.AssignedAt
		}
	}
	return out, nil
}

// guardOverlap is the authoritative conflict re-check. Writers for the same
// room are already serialized by the per-room lock service; running the check
// inside the insert transaction closes the window against writers that bypass
// that service.
func (r *AllocationRepositoryImpl) guardOverlap(tx *gorm.DB, roomID uint, stay vo.DateRange, excludeID uint) error {
	var count int64
	query := tx.Model(&models.RoomAllocationModel{}).
		Where("room_id = ? AND assignment_status IN ?", roomID, activeStatuses).
		Where("check_in_date < ? AND check_out_date > ?", stay.End(), stay.Start())
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to re-check overlaps: %w", err)
	}
	if count > 0 {
		return errors.NewConflictError(
			fmt.Sprintf("room %d has %d overlapping active allocation(s) for %s", roomID, count, stay))
	}

	// Block dates are stored inclusive, so [start, end] overlaps the half-open
	// stay when start < stay.End and end >= stay.Start. Overridable blocks are
	// rejected here too: overriding one requires the context override, which
	// skips this guard entirely.
	var blockCount int64
	err := tx.Model(&models.RoomBlockModel{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Where("start_date < ? AND end_date >= ?", stay.End(), stay.Start()).
		Count(&blockCount).Error
	if err != nil {
		return fmt.Errorf("failed to re-check block overlaps: %w", err)
	}
	if blockCount > 0 {
		return errors.NewConflictError(
			fmt.Sprintf("room %d has %d active block(s) overlapping %s", roomID, blockCount, stay))
	}
	return nil
}

func (r *AllocationRepositoryImpl) insertHistory(tx *gorm.DB, entry *alloc.AllocationHistory) error {
	model := r.histo.ToModel(entry)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set history ID: %w", err)
	}
	return nil
}
