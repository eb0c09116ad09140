package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationHistoryModel is an append-only audit row. No UpdatedAt: history
// entries are never modified after insert.
type AllocationHistoryModel struct {
	ID               uint   `gorm:"primaryKey"`
	AllocationID     uint   `gorm:"index"`
	BookingID        uint   `gorm:"index"`
	Action           string `gorm:"size:30;not null"`
	PreviousRoomID   *uint
	NewRoomID        *uint
	PreviousCheckIn  *time.Time
	PreviousCheckOut *time.Time
	NewCheckIn       *time.Time
	NewCheckOut      *time.Time
	PreviousStatus   string          `gorm:"size:20"`
	NewStatus        string          `gorm:"size:20"`
	PriceAdjustment  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Actor            string          `gorm:"size:100;not null"`
	Reason           string          `gorm:"size:500"`
	CreatedAt        time.Time       `gorm:"index"`
}

func (AllocationHistoryModel) TableName() string {
	return "allocation_history"
}
