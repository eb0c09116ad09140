package strategies

import "innkeep/internal/domain/booking"

// vipFirstScorer is an ordering strategy: the engine processes VIP bookings
// before everything else when it is selected (see SortBookings). Room choice
// itself falls back to tight-fit scoring so VIPs do not fragment availability
// any more than anyone else.
type vipFirstScorer struct{}

func (vipFirstScorer) Name() string { return VIPFirst }

func (vipFirstScorer) Score(b booking.BookingView, room booking.RoomView, sctx *Context) float64 {
	return gapFitScore(b, room, sctx)
}
