package usecases

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/application/allocation/services"
	"innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
)

// ConflictRef identifies one allocation or block colliding with a requested
// stay, so callers can show exactly what is in the way.
type ConflictRef struct {
	Kind        services.SourceKind `json:"kind"`
	ID          uint                `json:"id"`
	RoomID      uint                `json:"room_id"`
	Start       time.Time           `json:"start"`
	End         time.Time           `json:"end"`
	CanOverride bool                `json:"can_override"`
}

func (c ConflictRef) String() string {
	return fmt.Sprintf("%s %d on room %d (%s to %s)",
		c.Kind, c.ID, c.RoomID,
		c.Start.Format(time.DateOnly), c.End.Format(time.DateOnly))
}

// findRoomConflicts runs the overlap predicate against the room's active
// allocations and blocks. excludeAllocID skips one allocation, used by room
// changes to ignore the row being superseded. This is the fast, friendly
// pre-check; the repository re-checks inside the write transaction and is the
// authoritative guard.
func findRoomConflicts(
	ctx context.Context,
	allocations allocation.AllocationRepository,
	blocks allocation.BlockRepository,
	roomID uint,
	stay vo.DateRange,
	excludeAllocID uint,
) ([]ConflictRef, error) {
	var out []ConflictRef

	overlapping, err := allocations.FindOverlapping(ctx, roomID, stay, excludeAllocID)
	if err != nil {
		return nil, fmt.Errorf("failed to check allocation overlaps: %w", err)
	}
	for _, a := range overlapping {
		out = append(out, ConflictRef{
			Kind:   services.SourceAllocation,
			ID:     a.ID(),
			RoomID: a.RoomID(),
			Start:  a.Stay().Start(),
			End:    a.Stay().End(),
		})
	}

	activeBlocks, err := blocks.FindActiveInRange(ctx, stay.Start(), stay.End(), []uint{roomID})
	if err != nil {
		return nil, fmt.Errorf("failed to check block overlaps: %w", err)
	}
	for _, b := range activeBlocks {
		if !b.Range().Overlaps(stay) {
			continue
		}
		out = append(out, ConflictRef{
			Kind:        services.SourceBlock,
			ID:          b.ID(),
			RoomID:      b.RoomID(),
			Start:       b.Range().Start(),
			End:         b.Range().End(),
			CanOverride: b.CanOverride(),
		})
	}
	return out, nil
}

// stayFromBooking computes the half-open stay interval without panicking on
// malformed upstream dates.
func stayFromBooking(checkIn, checkOut time.Time, shiftDate *time.Time, shiftBased bool) (vo.DateRange, error) {
	if shiftBased && shiftDate != nil {
		return vo.NewDateRange(*shiftDate, shiftDate.AddDate(0, 0, 1))
	}
	return vo.NewDateRange(checkIn, checkOut)
}

func conflictSummary(conflicts []ConflictRef) string {
	s := ""
	for i, c := range conflicts {
		if i > 0 {
			s += "; "
		}
		s += c.String()
	}
	return s
}
