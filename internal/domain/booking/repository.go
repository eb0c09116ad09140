package booking

import (
	"context"
	"time"
)

// BookingReader reads bookings owned by the external booking subsystem.
type BookingReader interface {
	GetByID(ctx context.Context, id uint) (*BookingView, error)
	// ListConfirmedUnassigned returns confirmed bookings whose check-in falls
	// inside [from, to) and that have no active room allocation.
	ListConfirmedUnassigned(ctx context.Context, from, to time.Time) ([]BookingView, error)
}

// RoomReader reads room inventory owned by the external room subsystem.
type RoomReader interface {
	GetByID(ctx context.Context, id uint) (*RoomView, error)
	// ListActive returns active rooms, optionally restricted to one room type.
	ListActive(ctx context.Context, roomTypeID *uint) ([]RoomView, error)
}
