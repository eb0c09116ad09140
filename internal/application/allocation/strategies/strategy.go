// Package strategies holds the pluggable scoring policies used by automated
// batch assignment. Each strategy is a small pure scorer; the engine picks one
// from a fixed registry by name, applies preference and rule adjustments on
// top of the raw score, and assigns the highest-scoring candidate room.
package strategies

import (
	"fmt"
	"sort"
	"time"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/domain/allocation"
	"innkeep/internal/domain/booking"
	apperrors "innkeep/internal/shared/errors"
)

// Strategy names accepted by autoAssign.
const (
	OptimizeOccupancy = "optimize_occupancy"
	GroupByType       = "group_by_type"
	VIPFirst          = "vip_first"
	DistributeWear    = "distribute_wear"
)

// Context is the read-only snapshot a scorer works against. It is built once
// per batch and shared across bookings; scorers must not mutate it.
type Context struct {
	Availability *services.AvailabilityMap
	// Preferences maps guest ID to stored room preferences, absent guests
	// have no entry.
	Preferences map[uint]*allocation.GuestRoomPreferences
	// LastAssigned maps room ID to the most recent assignment time. Rooms
	// never assigned are absent.
	LastAssigned map[uint]time.Time
	Now          time.Time
}

// Scorer rates a candidate room for a booking. Higher is better; scores are
// only comparable within one strategy.
type Scorer interface {
	Name() string
	Score(b booking.BookingView, room booking.RoomView, sctx *Context) float64
}

var registry = map[string]Scorer{
	OptimizeOccupancy: occupancyScorer{},
	GroupByType:       groupByTypeScorer{},
	VIPFirst:          vipFirstScorer{},
	DistributeWear:    distributeWearScorer{},
}

// Get resolves a strategy by name.
func Get(name string) (Scorer, error) {
	s, ok := registry[name]
	if !ok {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("unsupported assignment strategy: %s (known: %v)", name, Names()))
	}
	return s, nil
}

// Names lists the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// gapFitScore rewards rooms whose free gap around the stay is tight: a stay
// that exactly fills a gap scores 0, every spare night costs a point. Shared
// by the occupancy strategy and used as the room-choice fallback for
// strategies that only reorder bookings.
func gapFitScore(b booking.BookingView, room booking.RoomView, sctx *Context) float64 {
	ra := sctx.Availability.Room(room.ID)
	if ra == nil {
		return 0
	}
	stay := b.Stay()
	gap, ok := ra.FreeGapAround(stay, sctx.Availability.Horizon)
	if !ok {
		return 0
	}
	return float64(stay.Nights() - gap.Nights())
}
