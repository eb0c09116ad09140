package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"innkeep/internal/application/allocation/services"
	vo "innkeep/internal/domain/allocation/valueobjects"
	"innkeep/internal/domain/booking"
)

const (
	// availabilityKeyPrefix is the prefix for snapshot keys.
	availabilityKeyPrefix = "availability:"
	// availabilityVersionKey holds the monotonically increasing snapshot
	// generation. Bumping it on every allocation or block write orphans all
	// cached snapshots at once without scanning keys.
	availabilityVersionKey = "availability_version"
)

// AvailabilityCache is a short-TTL redis snapshot cache for availability
// maps. Keys embed the exact horizon, the room-type filter, and the current
// generation; Invalidate bumps the generation.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &AvailabilityCache{client: client, ttl: ttl}
}

// snapshot types flatten the availability map into a codec-friendly shape.
// Merged intervals are recomputed on load instead of stored.
type busyIntervalDTO struct {
	Kind        string    `json:"kind"`
	ID          uint      `json:"id"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CanOverride bool      `json:"can_override,omitempty"`
}

type roomAvailabilityDTO struct {
	Room booking.RoomView  `json:"room"`
	Busy []busyIntervalDTO `json:"busy,omitempty"`
}

type availabilityMapDTO struct {
	HorizonStart time.Time             `json:"horizon_start"`
	HorizonEnd   time.Time             `json:"horizon_end"`
	Rooms        []roomAvailabilityDTO `json:"rooms"`
}

func (c *AvailabilityCache) Get(ctx context.Context, horizon vo.DateRange, roomTypeID *uint) (*services.AvailabilityMap, error) {
	key, err := c.buildKey(ctx, horizon, roomTypeID)
	if err != nil {
		return nil, err
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read availability snapshot: %w", err)
	}

	var dto availabilityMapDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode availability snapshot: %w", err)
	}
	return fromDTO(&dto)
}

func (c *AvailabilityCache) Set(ctx context.Context, horizon vo.DateRange, roomTypeID *uint, m *services.AvailabilityMap) error {
	key, err := c.buildKey(ctx, horizon, roomTypeID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(toDTO(m))
	if err != nil {
		return fmt.Errorf("failed to encode availability snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write availability snapshot: %w", err)
	}
	return nil
}

// Invalidate orphans every cached snapshot by bumping the generation.
func (c *AvailabilityCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, availabilityVersionKey).Err(); err != nil {
		return fmt.Errorf("failed to bump availability generation: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) buildKey(ctx context.Context, horizon vo.DateRange, roomTypeID *uint) (string, error) {
	version, err := c.client.Get(ctx, availabilityVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", fmt.Errorf("failed to read availability generation: %w", err)
	}

	typePart := "all"
	if roomTypeID != nil {
		typePart = fmt.Sprintf("%d", *roomTypeID)
	}
	return fmt.Sprintf("%sv%d:%s:%s:%s",
		availabilityKeyPrefix, version,
		horizon.Start().Format(time.DateOnly), horizon.End().Format(time.DateOnly),
		typePart), nil
}

func toDTO(m *services.AvailabilityMap) *availabilityMapDTO {
	dto := &availabilityMapDTO{
		HorizonStart: m.Horizon.Start(),
		HorizonEnd:   m.Horizon.End(),
	}
	for _, ra := range m.Rooms {
		room := roomAvailabilityDTO{Room: ra.Room}
		for _, b := range ra.Busy {
			room.Busy = append(room.Busy, busyIntervalDTO{
				Kind:        string(b.Kind),
				ID:          b.ID,
				Start:       b.Range.Start(),
				End:         b.Range.End(),
				CanOverride: b.CanOverride,
			})
		}
		dto.Rooms = append(dto.Rooms, room)
	}
	return dto
}

func fromDTO(dto *availabilityMapDTO) (*services.AvailabilityMap, error) {
	horizon, err := vo.NewDateRange(dto.HorizonStart, dto.HorizonEnd)
	if err != nil {
		return nil, fmt.Errorf("cached snapshot has an invalid horizon: %w", err)
	}

	m := &services.AvailabilityMap{
		Horizon: horizon,
		Rooms:   make(map[uint]*services.RoomAvailability, len(dto.Rooms)),
	}
	for _, roomDTO := range dto.Rooms {
		ra := &services.RoomAvailability{Room: roomDTO.Room}
		ranges := make([]vo.DateRange, 0, len(roomDTO.Busy))
		for _, b := range roomDTO.Busy {
			r, err := vo.NewDateRange(b.Start, b.End)
			if err != nil {
				return nil, fmt.Errorf("cached snapshot has an invalid busy interval: %w", err)
			}
			ra.Busy = append(ra.Busy, services.BusyInterval{
				Kind:        services.SourceKind(b.Kind),
				ID:          b.ID,
				Range:       r,
				CanOverride: b.CanOverride,
			})
			ranges = append(ranges, r)
		}
		ra.Merged = vo.MergeRanges(ranges)
		m.Rooms[ra.Room.ID] = ra
	}
	return m, nil
}
