package allocation

import (
	"context"
	"time"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

// AllocationRepository persists room allocations. Create and Supersede must
// run their writes in one transaction together with the history entry; the
// implementations re-check for overlaps inside that transaction so the
// storage layer, not the in-process pre-check, is the authoritative conflict
// guard.
type AllocationRepository interface {
	Create(ctx context.Context, alloc *RoomAllocation, entry *AllocationHistory) error
	// Supersede cancels old and inserts replacement plus the history entry
	// atomically.
	Supersede(ctx context.Context, old, replacement *RoomAllocation, entry *AllocationHistory) error
	Update(ctx context.Context, alloc *RoomAllocation) error
	GetByID(ctx context.Context, id uint) (*RoomAllocation, error)
	// GetActiveByBookingID returns the booking's current assigned or locked
	// allocation, nil when the booking has none.
	GetActiveByBookingID(ctx context.Context, bookingID uint) (*RoomAllocation, error)
	// FindOverlapping returns active allocations on the room whose stay
	// overlaps the given range. excludeID skips one allocation (used by room
	// changes to ignore the row being superseded).
	FindOverlapping(ctx context.Context, roomID uint, stay vo.DateRange, excludeID uint) ([]*RoomAllocation, error)
	// FindActiveInRange returns allocations overlapping [from, to) across
	// all rooms (or the given rooms when roomIDs is non-empty).
	// includePreAssigned additionally returns tentative holds; conflict
	// checks must never set it, the grid does.
	FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint, includePreAssigned bool) ([]*RoomAllocation, error)
	// LastAssignmentTimes returns, per room, the most recent assignedAt
	// among non-cancelled allocations. Rooms never assigned are absent.
	LastAssignmentTimes(ctx context.Context, roomIDs []uint) (map[uint]time.Time, error)
}

type conflictOverrideKey struct{}

// WithConflictOverride flags a write so the repository skips its
// in-transaction conflict re-check for an operator-approved override.
func WithConflictOverride(ctx context.Context, override bool) context.Context {
	if !override {
		return ctx
	}
	return context.WithValue(ctx, conflictOverrideKey{}, true)
}

// ConflictOverridden reports whether the write context carries an approved
// conflict override.
func ConflictOverridden(ctx context.Context) bool {
	v, _ := ctx.Value(conflictOverrideKey{}).(bool)
	return v
}

// BlockRepository persists administrative room blocks.
type BlockRepository interface {
	Create(ctx context.Context, block *RoomBlock) error
	Update(ctx context.Context, block *RoomBlock) error
	GetByID(ctx context.Context, id uint) (*RoomBlock, error)
	// FindActiveInRange returns active blocks overlapping [from, to) across
	// all rooms (or the given rooms when roomIDs is non-empty).
	FindActiveInRange(ctx context.Context, from, to time.Time, roomIDs []uint) ([]*RoomBlock, error)
}

// HistoryRepository appends audit records. There is no update or delete.
type HistoryRepository interface {
	Create(ctx context.Context, entry *AllocationHistory) error
	ListByAllocation(ctx context.Context, allocationID uint) ([]*AllocationHistory, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]*AllocationHistory, error)
}

// PreferenceRepository reads guest room preferences. The engine never writes
// them; stay-history tooling does.
type PreferenceRepository interface {
	GetByGuestID(ctx context.Context, guestID uint) (*GuestRoomPreferences, error)
}

// RuleRepository reads allocation rules, highest priority first.
type RuleRepository interface {
	ListEnabled(ctx context.Context) ([]*AllocationRule, error)
}
