package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"innkeep/internal/domain/booking"
	"innkeep/internal/infrastructure/persistence/mappers"
	"innkeep/internal/infrastructure/persistence/models"
)

// BookingReaderImpl reads the booking subsystem's table. Strictly read-only:
// the engine never owns or mutates booking rows.
type BookingReaderImpl struct {
	db *gorm.DB
}

func NewBookingReader(db *gorm.DB) booking.BookingReader {
	return &BookingReaderImpl{db: db}
}

func (r *BookingReaderImpl) GetByID(ctx context.Context, id uint) (*booking.BookingView, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking by ID: %w", err)
	}
	view := mappers.BookingViewFromModel(&model)
	return &view, nil
}

func (r *BookingReaderImpl) ListConfirmedUnassigned(ctx context.Context, from, to time.Time) ([]booking.BookingView, error) {
	var modelList []*models.BookingModel
	err := r.db.WithContext(ctx).
		Where("status = ?", booking.BookingStatusConfirmed).
		Where("check_in_date >= ? AND check_in_date < ?", from, to).
		Where("id NOT IN (?)", r.db.
			Model(&models.RoomAllocationModel{}).
			Select("booking_id").
			Where("assignment_status IN ?", activeStatuses)).
		Order("check_in_date ASC, id ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed unassigned bookings: %w", err)
	}

	out := make([]booking.BookingView, 0, len(modelList))
	for _, model := range modelList {
		out = append(out, mappers.BookingViewFromModel(model))
	}
	return out, nil
}

// RoomReaderImpl reads the room inventory table, also externally owned.
type RoomReaderImpl struct {
	db *gorm.DB
}

func NewRoomReader(db *gorm.DB) booking.RoomReader {
	return &RoomReaderImpl{db: db}
}

func (r *RoomReaderImpl) GetByID(ctx context.Context, id uint) (*booking.RoomView, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}
	view := mappers.RoomViewFromModel(&model)
	return &view, nil
}

func (r *RoomReaderImpl) ListActive(ctx context.Context, roomTypeID *uint) ([]booking.RoomView, error) {
	var modelList []*models.RoomModel
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if roomTypeID != nil {
		query = query.Where("room_type_id = ?", *roomTypeID)
	}
	if err := query.Order("id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list active rooms: %w", err)
	}

	out := make([]booking.RoomView, 0, len(modelList))
	for _, model := range modelList {
		out = append(out, mappers.RoomViewFromModel(model))
	}
	return out, nil
}
