package allocation

import (
	"fmt"
	"sync"
	"time"

	vo "innkeep/internal/domain/allocation/valueobjects"
)

// RoomBlock is an administrative hold on a room independent of any booking:
// maintenance, renovation, VIP holds and the like. Dates are inclusive on
// both ends; Range converts to the engine's half-open interval space so the
// conflict predicate treats blocks and allocations identically.
type RoomBlock struct {
	id            uint
	roomID        uint
	startDate     time.Time
	endDate       time.Time
	blockType     vo.BlockType
	blockReason   string
	canOverride   bool
	overrideLevel int
	isActive      bool
	createdBy     string
	createdAt     time.Time
	releasedBy    string
	releasedAt    *time.Time
	mu            sync.RWMutex
}

// NewRoomBlock creates an active block. The end date must not precede the
// start date; a single-day block has endDate == startDate.
func NewRoomBlock(
	roomID uint,
	startDate, endDate time.Time,
	blockType vo.BlockType,
	reason string,
	canOverride bool,
	overrideLevel int,
	createdBy string,
) (*RoomBlock, error) {
	if roomID == 0 {
		return nil, fmt.Errorf("room ID is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, fmt.Errorf("start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s cannot precede start date %s",
			endDate.Format(time.DateOnly), startDate.Format(time.DateOnly))
	}
	if !blockType.IsValid() {
		return nil, fmt.Errorf("invalid block type: %s", blockType)
	}

	return &RoomBlock{
		roomID:        roomID,
		startDate:     startDate,
		endDate:       endDate,
		blockType:     blockType,
		blockReason:   reason,
		canOverride:   canOverride,
		overrideLevel: overrideLevel,
		isActive:      true,
		createdBy:     createdBy,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructRoomBlock rebuilds a block from persistence.
func ReconstructRoomBlock(
	id uint,
	roomID uint,
	startDate, endDate time.Time,
	blockType vo.BlockType,
	reason string,
	canOverride bool,
	overrideLevel int,
	isActive bool,
	createdBy string,
	createdAt time.Time,
	releasedBy string,
	releasedAt *time.Time,
) (*RoomBlock, error) {
	if id == 0 {
		return nil, fmt.Errorf("block ID cannot be zero")
	}
	if !blockType.IsValid() {
		return nil, fmt.Errorf("invalid block type: %s", blockType)
	}

	return &RoomBlock{
		id:            id,
		roomID:        roomID,
		startDate:     startDate,
		endDate:       endDate,
		blockType:     blockType,
		blockReason:   reason,
		canOverride:   canOverride,
		overrideLevel: overrideLevel,
		isActive:      isActive,
		createdBy:     createdBy,
		createdAt:     createdAt,
		releasedBy:    releasedBy,
		releasedAt:    releasedAt,
	}, nil
}

func (b *RoomBlock) ID() uint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

func (b *RoomBlock) RoomID() uint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.roomID
}

func (b *RoomBlock) StartDate() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.startDate
}

func (b *RoomBlock) EndDate() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.endDate
}

func (b *RoomBlock) BlockType() vo.BlockType {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.blockType
}

func (b *RoomBlock) BlockReason() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.blockReason
}

func (b *RoomBlock) CanOverride() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canOverride
}

func (b *RoomBlock) OverrideLevel() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.overrideLevel
}

func (b *RoomBlock) IsActive() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isActive
}

func (b *RoomBlock) CreatedBy() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.createdBy
}

func (b *RoomBlock) CreatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.createdAt
}

func (b *RoomBlock) ReleasedBy() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.releasedBy
}

func (b *RoomBlock) ReleasedAt() *time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.releasedAt
}

// Range returns the blocked interval in half-open form: the day after the
// inclusive end date becomes the exclusive bound.
func (b *RoomBlock) Range() vo.DateRange {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, err := vo.NewDateRange(b.startDate, b.endDate.AddDate(0, 0, 1))
	if err != nil {
		// Constructor and Reconstruct enforce endDate >= startDate, so the
		// half-open conversion can only fail on a corrupted row.
		panic(fmt.Sprintf("room block %d has invalid dates: %v", b.id, err))
	}
	return r
}

func (b *RoomBlock) SetID(id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.id != 0 {
		return fmt.Errorf("block ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("block ID cannot be zero")
	}
	b.id = id
	return nil
}

// Release deactivates the block. Released blocks stop occupying the room but
// are kept for audit. Allocations are never touched by a release.
func (b *RoomBlock) Release(releasedBy string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isActive {
		return fmt.Errorf("block is already released")
	}
	now := time.Now().UTC()
	b.isActive = false
	b.releasedBy = releasedBy
	b.releasedAt = &now
	return nil
}
