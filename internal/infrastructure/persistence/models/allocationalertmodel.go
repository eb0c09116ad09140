package models

import "time"

// AllocationAlertModel is the gorm row for an allocation alert. EscalatedTo,
// NotifiedUsers and NotificationChannels are comma-separated lists; the
// mapper owns the encoding.
type AllocationAlertModel struct {
	ID                   uint `gorm:"primaryKey"`
	BookingID            uint `gorm:"not null;index:idx_alert_booking_open,priority:1"`
	AllocationID         *uint
	AlertType            string `gorm:"size:30;not null"`
	Severity             string `gorm:"size:20;not null;index"`
	IsResolved           bool   `gorm:"not null;default:false;index:idx_alert_booking_open,priority:2"`
	ResolvedAt           *time.Time
	ResolvedBy           string `gorm:"size:100"`
	ResolutionNotes      string `gorm:"size:500"`
	AutoResolved         bool   `gorm:"not null;default:false"`
	EscalationLevel      int    `gorm:"not null;default:0"`
	EscalatedAt          *time.Time
	EscalatedTo          string    `gorm:"size:1000"`
	NotifiedUsers        string    `gorm:"size:1000"`
	NotificationChannels string    `gorm:"size:255"`
	CreatedAt            time.Time `gorm:"index"`
	UpdatedAt            time.Time
}

func (AllocationAlertModel) TableName() string {
	return "allocation_alerts"
}
