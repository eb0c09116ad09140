package strategies

import (
	"sort"
	"time"

	"innkeep/internal/domain/allocation"
	"innkeep/internal/domain/booking"
)

// Preference and rule adjustments are applied on top of the raw strategy
// score so every strategy honors guest wishes and house policy the same way.
const (
	bonusPreferredRoom  = 5.0
	bonusAccessible     = 4.0
	bonusPreferredFloor = 2.0
	bonusPreferredType  = 1.0
	penaltyAvoidedType  = 3.0
	bonusRuleFloor      = 2.0
)

// PreferenceScore rates a room against stored guest preferences. Avoided
// rooms are excluded before scoring, so only soft signals remain here.
func PreferenceScore(p *allocation.GuestRoomPreferences, room booking.RoomView) float64 {
	if p == nil {
		return 0
	}
	var score float64
	if p.PrefersRoom(room.ID) {
		score += bonusPreferredRoom
	}
	if p.PrefersFloor(room.Floor) {
		score += bonusPreferredFloor
	}
	if p.PrefersRoomType(room.RoomTypeID) {
		score += bonusPreferredType
	}
	for _, avoided := range p.AvoidedRoomTypes {
		if avoided == room.RoomTypeID {
			score -= penaltyAvoidedType
		}
	}
	if p.NeedsAccessible && room.Floor <= 1 {
		score += bonusAccessible
	}
	return score
}

// RuleScore applies house allocation rules: rules are evaluated in priority
// order and the first matching rule's action is applied.
func RuleScore(rules []*allocation.AllocationRule, b booking.BookingView, room booking.RoomView, now time.Time) float64 {
	for _, r := range rules {
		if !r.Matches(b, now) {
			continue
		}
		return r.Action.ScoreAdjustment + bonusRuleFloor*r.Action.FloorBonus(room.Floor)
	}
	return 0
}

// SortBookings orders a batch for processing. vip_first puts VIP bookings
// (the VIP flag, or a preference priority at or above the threshold) ahead of
// everything else; within each group the earliest check-in goes first, ties
// broken by booking ID for determinism.
func SortBookings(strategy string, bookings []booking.BookingView, prefs map[uint]*allocation.GuestRoomPreferences, vipThreshold int) {
	isVIP := func(b booking.BookingView) bool {
		if b.IsVIP {
			return true
		}
		if p, ok := prefs[b.GuestID]; ok && p.PriorityLevel >= vipThreshold {
			return true
		}
		return false
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if strategy == VIPFirst {
			av, bv := isVIP(a), isVIP(b)
			if av != bv {
				return av
			}
		}
		if !a.CheckInDate.Equal(b.CheckInDate) {
			return a.CheckInDate.Before(b.CheckInDate)
		}
		return a.ID < b.ID
	})
}
