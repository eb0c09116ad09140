package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomAllocationModel is the gorm row for a room allocation. Check-in is
// inclusive, check-out exclusive; both are UTC day boundaries.
type RoomAllocationModel struct {
	ID                 uint            `gorm:"primaryKey"`
	BookingID          uint            `gorm:"not null;index:idx_booking_status,priority:1"`
	RoomID             uint            `gorm:"not null;index:idx_room_dates,priority:1;uniqueIndex:uq_room_checkin_status,priority:1"`
	AssignmentType     string          `gorm:"size:20;not null"`
	AssignmentStatus   string          `gorm:"size:20;not null;index:idx_booking_status,priority:2;uniqueIndex:uq_room_checkin_status,priority:3"`
	CheckInDate        time.Time       `gorm:"not null;index:idx_room_dates,priority:2;uniqueIndex:uq_room_checkin_status,priority:2"`
	CheckOutDate       time.Time       `gorm:"not null;index:idx_room_dates,priority:3"`
	IsVIP              bool            `gorm:"not null;default:false"`
	IsGuaranteed       bool            `gorm:"not null;default:false"`
	RequiresInspection bool            `gorm:"not null;default:false"`
	OriginalRoomTypeID uint            `gorm:"not null"`
	OriginalRate       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AllocatedRate      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AssignedAt         time.Time       `gorm:"not null"`
	AssignedBy         string          `gorm:"size:100;not null"`
	PreviousRoomID     *uint
	ChangedAt          *time.Time
	ChangedBy          string `gorm:"size:100"`
	ChangeReason       string `gorm:"size:500"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (RoomAllocationModel) TableName() string {
	return "room_allocations"
}
