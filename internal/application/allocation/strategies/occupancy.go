package strategies

import "innkeep/internal/domain/booking"

// occupancyScorer minimizes fragmentation: it prefers the room whose
// remaining free interval most tightly fits the stay, keeping long unbroken
// gaps open for long bookings.
type occupancyScorer struct{}

func (occupancyScorer) Name() string { return OptimizeOccupancy }

func (occupancyScorer) Score(b booking.BookingView, room booking.RoomView, sctx *Context) float64 {
	return gapFitScore(b, room, sctx)
}
