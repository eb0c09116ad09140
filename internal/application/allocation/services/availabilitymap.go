package services

import (
	"context"
	"fmt"
	"time"

	"innkeep/internal/domain/allocation"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
	"innkeep/internal/shared/goroutine"
	"innkeep/internal/shared/logger"
)

// SourceKind identifies what occupies a busy interval.
type SourceKind string

const (
	SourceAllocation SourceKind = "allocation"
	SourceBlock      SourceKind = "block"
)

// BusyInterval is one unmerged occupied interval with its source, so a
// conflict can always be traced back to the allocation or block that caused
// it.
type BusyInterval struct {
	Kind        SourceKind
	ID          uint
	Range       vo.DateRange
	CanOverride bool
}

// RoomAvailability is one room's occupancy over the horizon. Busy holds the
// original source intervals; Merged is the collapsed view used for gap
// arithmetic and presentation only.
type RoomAvailability struct {
	Room   booking.RoomView
	Busy   []BusyInterval
	Merged []vo.DateRange
}

// ConflictsWith returns the source intervals overlapping the stay. It always
// tests the unmerged intervals: merging must never mask which allocation or
// block collides.
func (ra *RoomAvailability) ConflictsWith(stay vo.DateRange) []BusyInterval {
	var out []BusyInterval
	for _, b := range ra.Busy {
		if b.Range.Overlaps(stay) {
			out = append(out, b)
		}
	}
	return out
}

// IsFree reports whether the stay fits without touching any busy interval.
func (ra *RoomAvailability) IsFree(stay vo.DateRange) bool {
	return len(ra.ConflictsWith(stay)) == 0
}

// FreeGapAround returns the free interval that would host the stay, clamped
// to the horizon. ok is false when the stay collides with a busy interval.
func (ra *RoomAvailability) FreeGapAround(stay, horizon vo.DateRange) (vo.DateRange, bool) {
	if !ra.IsFree(stay) {
		return vo.DateRange{}, false
	}
	gapStart := horizon.Start()
	gapEnd := horizon.End()
	for _, m := range ra.Merged {
		if !m.End().After(stay.Start()) && m.End().After(gapStart) {
			gapStart = m.End()
		}
		if !m.Start().Before(stay.End()) && m.Start().Before(gapEnd) {
			gapEnd = m.Start()
		}
	}
	if !gapEnd.After(gapStart) {
		return vo.DateRange{}, false
	}
	gap, err := vo.NewDateRange(gapStart, gapEnd)
	if err != nil {
		return vo.DateRange{}, false
	}
	return gap, true
}

// AvailabilityMap is the per-room occupancy picture for one horizon. It is
// rebuilt per request (or served from a short-TTL snapshot cache that every
// write invalidates); it must never live as long-lived in-process state.
type AvailabilityMap struct {
	Horizon vo.DateRange
	Rooms   map[uint]*RoomAvailability
}

// Room returns the availability for a room, nil when the room is outside the
// map's filter.
func (m *AvailabilityMap) Room(roomID uint) *RoomAvailability {
	return m.Rooms[roomID]
}

// AddBusy records a freshly written interval so that a running batch sees its
// own assignments without a rebuild.
func (m *AvailabilityMap) AddBusy(roomID uint, interval BusyInterval) {
	ra := m.Rooms[roomID]
	if ra == nil {
		return
	}
	ra.Busy = append(ra.Busy, interval)
	ranges := make([]vo.DateRange, 0, len(ra.Merged)+1)
	ranges = append(ranges, ra.Merged...)
	ranges = append(ranges, interval.Range)
	ra.Merged = vo.MergeRanges(ranges)
}

// SnapshotCache caches built maps keyed by the exact horizon and room-type
// filter. Implementations must expire entries quickly and support
// whole-cache invalidation on every allocation or block write.
type SnapshotCache interface {
	Get(ctx context.Context, horizon vo.DateRange, roomTypeID *uint) (*AvailabilityMap, error)
	Set(ctx context.Context, horizon vo.DateRange, roomTypeID *uint, m *AvailabilityMap) error
	Invalidate(ctx context.Context) error
}

// AvailabilityMapService builds per-room blocked-interval maps from the
// allocation and block stores.
type AvailabilityMapService struct {
	allocations allocation.AllocationRepository
	blocks      allocation.BlockRepository
	rooms       booking.RoomReader
	cache       SnapshotCache
	logger      logger.Interface
}

// NewAvailabilityMapService creates the service. cache may be nil, in which
// case every call rebuilds from the repositories.
func NewAvailabilityMapService(
	allocations allocation.AllocationRepository,
	blocks allocation.BlockRepository,
	rooms booking.RoomReader,
	cache SnapshotCache,
	logger logger.Interface,
) *AvailabilityMapService {
	return &AvailabilityMapService{
		allocations: allocations,
		blocks:      blocks,
		rooms:       rooms,
		cache:       cache,
		logger:      logger,
	}
}

// Build assembles the availability map for the horizon, drawing from
// assigned/locked allocations and active blocks that overlap it.
func (s *AvailabilityMapService) Build(ctx context.Context, horizon vo.DateRange, roomTypeID *uint) (*AvailabilityMap, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, horizon, roomTypeID); err != nil {
			s.logger.Warnw("availability cache read failed, rebuilding", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	m, err := s.build(ctx, horizon, roomTypeID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Snapshot persistence is best effort and must not add redis latency
		// to the build path.
		writeCtx := context.WithoutCancel(ctx)
		goroutine.SafeGo(s.logger, "availability-snapshot-write", func() {
			if err := s.cache.Set(writeCtx, horizon, roomTypeID, m); err != nil {
				s.logger.Warnw("availability cache write failed", "error", err)
			}
		})
	}
	return m, nil
}

func (s *AvailabilityMapService) build(ctx context.Context, horizon vo.DateRange, roomTypeID *uint) (*AvailabilityMap, error) {
	rooms, err := s.rooms.ListActive(ctx, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	m := &AvailabilityMap{
		Horizon: horizon,
		Rooms:   make(map[uint]*RoomAvailability, len(rooms)),
	}
	roomIDs := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		m.Rooms[r.ID] = &RoomAvailability{Room: r}
		roomIDs = append(roomIDs, r.ID)
	}
	if len(roomIDs) == 0 {
		return m, nil
	}

	allocs, err := s.allocations.FindActiveInRange(ctx, horizon.Start(), horizon.End(), roomIDs, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations: %w", err)
	}
	for _, a := range allocs {
		if ra := m.Rooms[a.RoomID()]; ra != nil {
			ra.Busy = append(ra.Busy, BusyInterval{
				Kind:  SourceAllocation,
				ID:    a.ID(),
				Range: a.Stay(),
			})
		}
	}

	blocks, err := s.blocks.FindActiveInRange(ctx, horizon.Start(), horizon.End(), roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	for _, b := range blocks {
		if ra := m.Rooms[b.RoomID()]; ra != nil {
			ra.Busy = append(ra.Busy, BusyInterval{
				Kind:        SourceBlock,
				ID:          b.ID(),
				Range:       b.Range(),
				CanOverride: b.CanOverride(),
			})
		}
	}

	for _, ra := range m.Rooms {
		ranges := make([]vo.DateRange, 0, len(ra.Busy))
		for _, b := range ra.Busy {
			ranges = append(ranges, b.Range)
		}
		ra.Merged = vo.MergeRanges(ranges)
	}
	return m, nil
}

// HorizonForDates widens [from, to) so short stays still get meaningful gap
// arithmetic around them.
func HorizonForDates(from, to time.Time) (vo.DateRange, error) {
	return vo.NewDateRange(from, to)
}
