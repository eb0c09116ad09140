package models

import "time"

// RoomBlockModel is the gorm row for an administrative room block. Unlike
// allocations, both dates are inclusive; the mapper converts to the half-open
// interval space.
type RoomBlockModel struct {
	ID            uint      `gorm:"primaryKey"`
	RoomID        uint      `gorm:"not null;index:idx_block_room_dates,priority:1"`
	StartDate     time.Time `gorm:"not null;index:idx_block_room_dates,priority:2"`
	EndDate       time.Time `gorm:"not null;index:idx_block_room_dates,priority:3"`
	BlockType     string    `gorm:"size:20;not null"`
	BlockReason   string    `gorm:"size:500"`
	CanOverride   bool      `gorm:"not null;default:false"`
	OverrideLevel int       `gorm:"not null;default:0"`
	IsActive      bool      `gorm:"not null;default:true;index"`
	CreatedBy     string    `gorm:"size:100;not null"`
	CreatedAt     time.Time
	ReleasedBy    string `gorm:"size:100"`
	ReleasedAt    *time.Time
}

func (RoomBlockModel) TableName() string {
	return "room_blocks"
}
