package allocation

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

// RoomAllocation binds one booking to one physical room for one stay. It is
// never physically deleted: a room change supersedes the row with a
// replacement that points back via previousRoomID, and the old row keeps the
// cancelled status as history.
type RoomAllocation struct {
	id                 uint
	bookingID          uint
	roomID             uint
	assignmentType     vo.AssignmentType
	status             vo.AssignmentStatus
	stay               vo.DateRange
	isVIP              bool
	isGuaranteed       bool
	requiresInspection bool
	originalRoomTypeID uint
	originalRate       decimal.Decimal
	allocatedRate      decimal.Decimal
	rateDifference     decimal.Decimal
	assignedAt         time.Time
	assignedBy         string
	previousRoomID     *uint
	changedAt          *time.Time
	changedBy          string
	changeReason       string
	createdAt          time.Time
	updatedAt          time.Time
	mu                 sync.RWMutex
}

// NewRoomAllocation creates an allocation for a booking. The status starts as
// assigned, or locked when the booking is guaranteed. Use NewPreAssignment
// for tentative holds that do not yet occupy the room.
func NewRoomAllocation(
	bookingID uint,
	roomID uint,
	assignmentType vo.AssignmentType,
	stay vo.DateRange,
	assignedBy string,
	isVIP bool,
	isGuaranteed bool,
	originalRoomTypeID uint,
	originalRate decimal.Decimal,
	allocatedRate decimal.Decimal,
) (*RoomAllocation, error) {
	a, err := newAllocation(bookingID, roomID, assignmentType, stay, assignedBy,
		isVIP, isGuaranteed, originalRoomTypeID, originalRate, allocatedRate)
	if err != nil {
		return nil, err
	}

	a.status = vo.AssignmentStatusAssigned
	if isGuaranteed {
		a.status = vo.AssignmentStatusLocked
	}
	return a, nil
}

// NewPreAssignment creates a tentative allocation. Pre-assigned rows do not
// block the room; they are promoted with Confirm or Lock once the booking is
// confirmed externally.
func NewPreAssignment(
	bookingID uint,
	roomID uint,
	assignmentType vo.AssignmentType,
	stay vo.DateRange,
	assignedBy string,
	isVIP bool,
	originalRoomTypeID uint,
	originalRate decimal.Decimal,
	allocatedRate decimal.Decimal,
) (*RoomAllocation, error) {
	a, err := newAllocation(bookingID, roomID, assignmentType, stay, assignedBy,
		isVIP, false, originalRoomTypeID, originalRate, allocatedRate)
	if err != nil {
		return nil, err
	}

	a.status = vo.AssignmentStatusPreAssigned
	return a, nil
}

func newAllocation(
	bookingID uint,
	roomID uint,
	assignmentType vo.AssignmentType,
	stay vo.DateRange,
	assignedBy string,
	isVIP bool,
	isGuaranteed bool,
	originalRoomTypeID uint,
	originalRate decimal.Decimal,
	allocatedRate decimal.Decimal,
) (*RoomAllocation, error) {
	if bookingID == 0 {
		return nil, fmt.Errorf("booking ID is required")
	}
	if roomID == 0 {
		return nil, fmt.Errorf("room ID is required")
	}
	if !assignmentType.IsValid() {
		return nil, fmt.Errorf("invalid assignment type: %s", assignmentType)
	}
	if stay.IsZero() {
		return nil, fmt.Errorf("stay date range is required")
	}
	if allocatedRate.IsNegative() || originalRate.IsNegative() {
		return nil, fmt.Errorf("rates cannot be negative")
	}

	now := time.Now().UTC()
	return &RoomAllocation{
		bookingID:          bookingID,
		roomID:             roomID,
		assignmentType:     assignmentType,
		stay:               stay,
		isVIP:              isVIP,
		isGuaranteed:       isGuaranteed,
		originalRoomTypeID: originalRoomTypeID,
		originalRate:       originalRate,
		allocatedRate:      allocatedRate,
		rateDifference:     allocatedRate.Sub(originalRate),
		assignedAt:         now,
		assignedBy:         assignedBy,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// ReconstructRoomAllocation rebuilds an allocation from persistence.
func ReconstructRoomAllocation(
	id uint,
	bookingID uint,
	roomID uint,
	assignmentType vo.AssignmentType,
	status vo.AssignmentStatus,
	stay vo.DateRange,
	isVIP bool,
	isGuaranteed bool,
	requiresInspection bool,
	originalRoomTypeID uint,
	originalRate decimal.Decimal,
	allocatedRate decimal.Decimal,
	assignedAt time.Time,
	assignedBy string,
	previousRoomID *uint,
	changedAt *time.Time,
	changedBy string,
	changeReason string,
	createdAt, updatedAt time.Time,
) (*RoomAllocation, error) {
	if id == 0 {
		return nil, fmt.Errorf("allocation ID cannot be zero")
	}
	if !assignmentType.IsValid() {
		return nil, fmt.Errorf("invalid assignment type: %s", assignmentType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid assignment status: %s", status)
	}

	return &RoomAllocation{
		id:                 id,
		bookingID:          bookingID,
		roomID:             roomID,
		assignmentType:     assignmentType,
		status:             status,
		stay:               stay,
		isVIP:              isVIP,
		isGuaranteed:       isGuaranteed,
		requiresInspection: requiresInspection,
		originalRoomTypeID: originalRoomTypeID,
		originalRate:       originalRate,
		allocatedRate:      allocatedRate,
		rateDifference:     allocatedRate.Sub(originalRate),
		assignedAt:         assignedAt,
		assignedBy:         assignedBy,
		previousRoomID:     previousRoomID,
		changedAt:          changedAt,
		changedBy:          changedBy,
		changeReason:       changeReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (a *RoomAllocation) ID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id
}

func (a *RoomAllocation) BookingID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bookingID
}

func (a *RoomAllocation) RoomID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.roomID
}

func (a *RoomAllocation) AssignmentType() vo.AssignmentType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.assignmentType
}

func (a *RoomAllocation) Status() vo.AssignmentStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

func (a *RoomAllocation) Stay() vo.DateRange {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stay
}

func (a *RoomAllocation) IsVIP() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isVIP
}

func (a *RoomAllocation) IsGuaranteed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isGuaranteed
}

func (a *RoomAllocation) RequiresInspection() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.requiresInspection
}

func (a *RoomAllocation) OriginalRoomTypeID() uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.originalRoomTypeID
}

func (a *RoomAllocation) OriginalRate() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.originalRate
}

func (a *RoomAllocation) AllocatedRate() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.allocatedRate
}

// RateDifference is allocatedRate minus originalRate, recomputed on every
// room change.
func (a *RoomAllocation) RateDifference() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rateDifference
}

func (a *RoomAllocation) AssignedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.assignedAt
}

func (a *RoomAllocation) AssignedBy() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.assignedBy
}

func (a *RoomAllocation) PreviousRoomID() *uint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.previousRoomID
}

func (a *RoomAllocation) ChangedAt() *time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.changedAt
}

func (a *RoomAllocation) ChangedBy() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.changedBy
}

func (a *RoomAllocation) ChangeReason() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.changeReason
}

func (a *RoomAllocation) CreatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.createdAt
}

func (a *RoomAllocation) UpdatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.updatedAt
}

// IsActive reports whether the allocation currently occupies its room.
func (a *RoomAllocation) IsActive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status.IsActive()
}

func (a *RoomAllocation) SetID(id uint) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.id != 0 {
		return fmt.Errorf("allocation ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("allocation ID cannot be zero")
	}
	a.id = id
	return nil
}

// Confirm promotes a pre-assigned allocation to assigned.
func (a *RoomAllocation) Confirm() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != vo.AssignmentStatusPreAssigned {
		return fmt.Errorf("only pre-assigned allocations can be confirmed, current status: %s", a.status)
	}
	a.status = vo.AssignmentStatusAssigned
	a.updatedAt = time.Now().UTC()
	return nil
}

// Lock pins the allocation once the booking is guaranteed or confirmed
// externally. A locked allocation still occupies the room but is excluded
// from automatic reshuffling.
func (a *RoomAllocation) Lock() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.status {
	case vo.AssignmentStatusLocked:
		return fmt.Errorf("allocation is already locked")
	case vo.AssignmentStatusCancelled:
		return fmt.Errorf("cancelled allocation cannot be locked")
	}
	a.status = vo.AssignmentStatusLocked
	a.updatedAt = time.Now().UTC()
	return nil
}

// Cancel releases the room. The row is kept as history.
func (a *RoomAllocation) Cancel(by, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == vo.AssignmentStatusCancelled {
		return fmt.Errorf("allocation is already cancelled")
	}
	a.status = vo.AssignmentStatusCancelled
	now := time.Now().UTC()
	a.changedAt = &now
	a.changedBy = by
	a.changeReason = reason
	a.updatedAt = now
	return nil
}

// ChangeTo supersedes this allocation with a replacement on a new room. The
// receiver is cancelled in place; the returned allocation carries the same
// stay and booking, points back via PreviousRoomID, and recomputes the rate
// difference. When applyCharges is false the replacement keeps the original
// rate so no adjustment is produced.
func (a *RoomAllocation) ChangeTo(
	newRoomID uint,
	newRate decimal.Decimal,
	applyCharges bool,
	changedBy string,
	reason string,
) (*RoomAllocation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == vo.AssignmentStatusCancelled {
		return nil, fmt.Errorf("cancelled allocation cannot be changed")
	}
	if newRoomID == 0 {
		return nil, fmt.Errorf("new room ID is required")
	}
	if newRoomID == a.roomID {
		return nil, fmt.Errorf("new room must differ from the current room")
	}

	now := time.Now().UTC()
	allocatedRate := a.originalRate
	changeType := vo.AssignmentTypeManual
	if applyCharges {
		allocatedRate = newRate
		switch allocatedRate.Cmp(a.originalRate) {
		case 1:
			changeType = vo.AssignmentTypeUpgrade
		case -1:
			changeType = vo.AssignmentTypeDowngrade
		}
	}

	prevRoomID := a.roomID
	replacement := &RoomAllocation{
		bookingID:          a.bookingID,
		roomID:             newRoomID,
		assignmentType:     changeType,
		status:             a.status,
		stay:               a.stay,
		isVIP:              a.isVIP,
		isGuaranteed:       a.isGuaranteed,
		requiresInspection: a.requiresInspection,
		originalRoomTypeID: a.originalRoomTypeID,
		originalRate:       a.originalRate,
		allocatedRate:      allocatedRate,
		rateDifference:     allocatedRate.Sub(a.originalRate),
		assignedAt:         now,
		assignedBy:         changedBy,
		previousRoomID:     &prevRoomID,
		changedAt:          &now,
		changedBy:          changedBy,
		changeReason:       reason,
		createdAt:          now,
		updatedAt:          now,
	}

	a.status = vo.AssignmentStatusCancelled
	a.changedAt = &now
	a.changedBy = changedBy
	a.changeReason = reason
	a.updatedAt = now

	return replacement, nil
}
