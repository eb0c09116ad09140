package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

// HistoryAction identifies what kind of mutation a history entry records.
type HistoryAction string

const (
	HistoryActionAssigned      HistoryAction = "assigned"
	HistoryActionAutoAssigned  HistoryAction = "auto_assigned"
	HistoryActionChanged       HistoryAction = "changed"
	HistoryActionCancelled     HistoryAction = "cancelled"
	HistoryActionLocked        HistoryAction = "locked"
	HistoryActionBlockCreated  HistoryAction = "block_created"
	HistoryActionBlockReleased HistoryAction = "block_released"
)

// AllocationHistory is one append-only audit record per allocation mutation.
// Entries are never updated or deleted; they reconstruct why a room is
// assigned the way it is without mutating the allocation rows themselves.
type AllocationHistory struct {
	id              uint
	allocationID    uint
	bookingID       uint
	action          HistoryAction
	previousRoomID  *uint
	newRoomID       *uint
	previousStay    *vo.DateRange
	newStay         *vo.DateRange
	previousStatus  string
	newStatus       string
	priceAdjustment decimal.Decimal
	actor           string
	reason          string
	createdAt       time.Time
}

// NewHistoryEntry records a mutation. allocationID may be zero at build time
// when the allocation row has not been inserted yet; the repository fills it
// in inside the same transaction.
func NewHistoryEntry(
	allocationID uint,
	bookingID uint,
	action HistoryAction,
	previousRoomID, newRoomID *uint,
	previousStay, newStay *vo.DateRange,
	previousStatus, newStatus string,
	priceAdjustment decimal.Decimal,
	actor string,
	reason string,
) (*AllocationHistory, error) {
	if bookingID == 0 {
		return nil, fmt.Errorf("booking ID is required")
	}
	if action == "" {
		return nil, fmt.Errorf("history action is required")
	}

	return &AllocationHistory{
		allocationID:    allocationID,
		bookingID:       bookingID,
		action:          action,
		previousRoomID:  previousRoomID,
		newRoomID:       newRoomID,
		previousStay:    previousStay,
		newStay:         newStay,
		previousStatus:  previousStatus,
		newStatus:       newStatus,
		priceAdjustment: priceAdjustment,
		actor:           actor,
		reason:          reason,
		createdAt:       time.Now().UTC(),
	}, nil
}

// NewBlockHistoryEntry records a block mutation. Blocks are independent of
// bookings, so the booking ID stays zero and the room travels in newRoomID.
func NewBlockHistoryEntry(
	action HistoryAction,
	roomID uint,
	blocked *vo.DateRange,
	actor string,
	reason string,
) (*AllocationHistory, error) {
	if action != HistoryActionBlockCreated && action != HistoryActionBlockReleased {
		return nil, fmt.Errorf("action %s is not a block action", action)
	}
	if roomID == 0 {
		return nil, fmt.Errorf("room ID is required")
	}

	return &AllocationHistory{
		action:    action,
		newRoomID: &roomID,
		newStay:   blocked,
		actor:     actor,
		reason:    reason,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructHistoryEntry rebuilds an entry from persistence.
func ReconstructHistoryEntry(
	id uint,
	allocationID uint,
	bookingID uint,
	action HistoryAction,
	previousRoomID, newRoomID *uint,
	previousStay, newStay *vo.DateRange,
	previousStatus, newStatus string,
	priceAdjustment decimal.Decimal,
	actor string,
	reason string,
	createdAt time.Time,
) *AllocationHistory {
	return &AllocationHistory{
		id:              id,
		allocationID:    allocationID,
		bookingID:       bookingID,
		action:          action,
		previousRoomID:  previousRoomID,
		newRoomID:       newRoomID,
		previousStay:    previousStay,
		newStay:         newStay,
		previousStatus:  previousStatus,
		newStatus:       newStatus,
		priceAdjustment: priceAdjustment,
		actor:           actor,
		reason:          reason,
		createdAt:       createdAt,
	}
}

func (h *AllocationHistory) ID() uint                         { return h.id }
func (h *AllocationHistory) AllocationID() uint               { return h.allocationID }
func (h *AllocationHistory) BookingID() uint                  { return h.bookingID }
func (h *AllocationHistory) Action() HistoryAction            { return h.action }
func (h *AllocationHistory) PreviousRoomID() *uint            { return h.previousRoomID }
func (h *AllocationHistory) NewRoomID() *uint                 { return h.newRoomID }
func (h *AllocationHistory) PreviousStay() *vo.DateRange      { return h.previousStay }
func (h *AllocationHistory) NewStay() *vo.DateRange           { return h.newStay }
func (h *AllocationHistory) PreviousStatus() string           { return h.previousStatus }
func (h *AllocationHistory) NewStatus() string                { return h.newStatus }
func (h *AllocationHistory) PriceAdjustment() decimal.Decimal { return h.priceAdjustment }
func (h *AllocationHistory) Actor() string                    { return h.actor }
func (h *AllocationHistory) Reason() string                   { return h.reason }
func (h *AllocationHistory) CreatedAt() time.Time             { return h.createdAt }

// SetID is called by the repository after insert.
func (h *AllocationHistory) SetID(id uint) error {
	if h.id != 0 {
		return fmt.Errorf("history ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("history ID cannot be zero")
	}
	h.id = id
	return nil
}

// SetAllocationID links the entry to the allocation row created in the same
// transaction.
func (h *AllocationHistory) SetAllocationID(id uint) {
	if h.allocationID == 0 {
		h.allocationID = id
	}
}
