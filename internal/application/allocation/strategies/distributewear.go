package strategies

import "innkeep/internal/domain/booking"

// hoursNeverAssigned ranks rooms with no assignment on record ahead of every
// room that has one.
const hoursNeverAssigned = float64(100 * 365 * 24)

// distributeWearScorer spreads usage across the inventory: the
// least-recently-assigned room wins among otherwise-equal candidates.
type distributeWearScorer struct{}

func (distributeWearScorer) Name() string { return DistributeWear }

func (distributeWearScorer) Score(b booking.BookingView, room booking.RoomView, sctx *Context) float64 {
	last, ok := sctx.LastAssigned[room.ID]
	if !ok {
		return hoursNeverAssigned
	}
	return sctx.Now.Sub(last).Hours()
}
