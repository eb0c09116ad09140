package models

import "time"

// AllocationRuleModel stores one allocation rule with its conditions and
// action flattened into typed columns.
type AllocationRuleModel struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:120;not null"`
	Priority        int    `gorm:"not null;default:0;index"`
	Enabled         bool   `gorm:"not null;default:true;index"`
	SchemaVersion   int    `gorm:"not null;default:1"`
	MinDaysAdvance  *int
	MinNights       *int
	RoomTypes       string  `gorm:"size:255"`
	VIPOnly         bool    `gorm:"not null;default:false"`
	ScoreAdjustment float64 `gorm:"not null;default:0"`
	PreferFloors    string  `gorm:"size:255"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (AllocationRuleModel) TableName() string {
	return "allocation_rules"
}
