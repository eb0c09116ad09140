package models

import "time"

// BookingModel reads the booking subsystem's table. The engine never writes
// it; only the columns the allocation engine consumes are mapped.
type BookingModel struct {
	ID              uint      `gorm:"primaryKey"`
	Status          string    `gorm:"size:20"`
	CheckInDate     time.Time `gorm:"not null"`
	CheckOutDate    time.Time `gorm:"not null"`
	CheckInTime     *time.Time
	RoomTypeID      uint `gorm:"not null"`
	GuestID         uint
	GuestName       string `gorm:"size:200"`
	IsVIP           bool
	IsGuaranteed    bool
	SpecialRequests string `gorm:"size:1000"`
	ShiftType       string `gorm:"size:20"`
	ShiftDate       *time.Time
}

func (BookingModel) TableName() string {
	return "bookings"
}

// RoomModel reads the room inventory table, also owned externally.
type RoomModel struct {
	ID         uint   `gorm:"primaryKey"`
	RoomNumber string `gorm:"size:20"`
	RoomTypeID uint   `gorm:"not null"`
	Floor      int
	Status     string `gorm:"size:20"`
	IsActive   bool
}

func (RoomModel) TableName() string {
	return "rooms"
}
