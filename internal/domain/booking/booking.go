// Package booking holds read-only views of the records the allocation engine
// consumes from the booking and room inventory subsystems. Both are external
// collaborators: the engine trusts that bookings and rooms it receives exist
// and have been validated upstream, and it never writes to either.
package booking

import (
	"time"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

// ShiftType distinguishes date-based stays from shift-based ones.
type ShiftType string

const (
	ShiftTypeDate    ShiftType = "date"
	ShiftTypeDay     ShiftType = "day"
	ShiftTypeNight   ShiftType = "night"
	ShiftTypeFullDay ShiftType = "full_day"
)

// IsShiftBased reports whether the stay occupies a shift of a single day
// rather than a range of nights.
func (s ShiftType) IsShiftBased() bool {
	return s == ShiftTypeDay || s == ShiftTypeNight || s == ShiftTypeFullDay
}

// BookingStatusConfirmed is the only booking status the engine assigns rooms
// for; everything else is upstream workflow.
const BookingStatusConfirmed = "confirmed"

// BookingView is the slice of a booking the engine needs.
type BookingView struct {
	ID              uint
	Status          string
	CheckInDate     time.Time
	CheckOutDate    time.Time
	CheckInTime     time.Time
	RoomTypeID      uint
	GuestID         uint
	GuestName       string
	IsVIP           bool
	IsGuaranteed    bool
	SpecialRequests string
	ShiftType       ShiftType
	ShiftDate       *time.Time
}

// Stay returns the booking's half-open stay interval. Shift-based bookings
// occupy the single shift date.
func (b BookingView) Stay() vo.DateRange {
	if b.ShiftType.IsShiftBased() && b.ShiftDate != nil {
		return vo.MustDateRange(*b.ShiftDate, b.ShiftDate.AddDate(0, 0, 1))
	}
	return vo.MustDateRange(b.CheckInDate, b.CheckOutDate)
}

// IsConfirmed reports whether the booking is eligible for assignment.
func (b BookingView) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// RoomView is the slice of a physical room the engine needs.
type RoomView struct {
	ID         uint
	RoomNumber string
	RoomTypeID uint
	Floor      int
	Status     string
	IsActive   bool
}
