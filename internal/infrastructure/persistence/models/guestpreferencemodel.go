package models

import "time"

// GuestPreferenceModel stores one guest's room preferences as typed columns.
// List-valued preferences are comma-separated ID lists, never opaque JSON, so
// a malformed value fails in the mapper instead of silently no-oping during
// assignment.
type GuestPreferenceModel struct {
	ID                 uint   `gorm:"primaryKey"`
	GuestID            uint   `gorm:"not null;uniqueIndex"`
	SchemaVersion      int    `gorm:"not null;default:1"`
	PreferredRoomTypes string `gorm:"size:255"`
	AvoidedRoomTypes   string `gorm:"size:255"`
	PreferredFloors    string `gorm:"size:255"`
	PreferredRooms     string `gorm:"size:255"`
	AvoidedRooms       string `gorm:"size:255"`
	PreferredFeatures  string `gorm:"size:1000"`
	NeedsAccessible    bool   `gorm:"not null;default:false"`
	PriorityLevel      int    `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (GuestPreferenceModel) TableName() string {
	return "guest_room_preferences"
}
