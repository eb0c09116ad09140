package strategies

import (
	"innkeep/internal/application/allocation/services"
	"innkeep/internal/domain/booking"
)

// groupByTypeScorer clusters similar stays physically: it prefers rooms on
// floors that already hold bookings of the same room type, and rooms that are
// already partially booked over untouched ones.
type groupByTypeScorer struct{}

func (groupByTypeScorer) Name() string { return GroupByType }

func (groupByTypeScorer) Score(b booking.BookingView, room booking.RoomView, sctx *Context) float64 {
	var score float64
	for _, ra := range sctx.Availability.Rooms {
		if ra.Room.Floor != room.Floor || ra.Room.RoomTypeID != b.RoomTypeID {
			continue
		}
		for _, busy := range ra.Busy {
			if busy.Kind == services.SourceAllocation {
				score++
			}
		}
	}
	// Half a point for filling a room that is already in use, so empty rooms
	// on a busy floor still rank below occupied ones.
	if ra := sctx.Availability.Room(room.ID); ra != nil && len(ra.Busy) > 0 {
		score += 0.5
	}
	return score
}
