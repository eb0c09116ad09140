package allocation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PreferencesSchemaVersion is bumped whenever a recognized preference key is
// added or changes meaning. Rows written with an older version are still
// readable; unknown keys cannot exist because the schema is explicit.
const PreferencesSchemaVersion = 1

var prefValidate = validator.New()

// GuestRoomPreferences holds a guest's soft allocation constraints. The
// engine reads them as scoring hints; they never hard-block an assignment
// except for rooms on the avoid list when preference respect is requested.
//
// Unlike the free-form key/value blob this replaces, every recognized key is
// an explicit field validated at write time, so a malformed preference is
// rejected before it can silently no-op during assignment.
type GuestRoomPreferences struct {
	GuestID            uint     `validate:"required"`
	SchemaVersion      int      `validate:"required,min=1"`
	PreferredRoomTypes []uint   `validate:"dive,min=1"`
	AvoidedRoomTypes   []uint   `validate:"dive,min=1"`
	PreferredFloors    []int    ``
	PreferredRooms     []uint   `validate:"dive,min=1"`
	AvoidedRooms       []uint   `validate:"dive,min=1"`
	PreferredFeatures  []string `validate:"dive,min=1,max=64"`
	NeedsAccessible    bool     ``
	// PriorityLevel (1-10) breaks ties between otherwise-equal candidates
	// and feeds the VIP threshold used by the vip_first strategy.
	PriorityLevel int `validate:"required,min=1,max=10"`
}

// Validate checks the preference document before it is written. Reads never
// re-validate; a stored document is trusted.
func (p *GuestRoomPreferences) Validate() error {
	if err := prefValidate.Struct(p); err != nil {
		return fmt.Errorf("invalid guest room preferences: %w", err)
	}
	return nil
}

// PrefersRoom reports whether the room is on the preferred list.
func (p *GuestRoomPreferences) PrefersRoom(roomID uint) bool {
	return containsUint(p.PreferredRooms, roomID)
}

// AvoidsRoom reports whether the room is on the avoid list.
func (p *GuestRoomPreferences) AvoidsRoom(roomID uint) bool {
	return containsUint(p.AvoidedRooms, roomID)
}

// PrefersRoomType reports whether the room type is on the preferred list.
func (p *GuestRoomPreferences) PrefersRoomType(roomTypeID uint) bool {
	return containsUint(p.PreferredRoomTypes, roomTypeID)
}

// PrefersFloor reports whether the floor is on the preferred list.
func (p *GuestRoomPreferences) PrefersFloor(floor int) bool {
	for _, f := range p.PreferredFloors {
		if f == floor {
			return true
		}
	}
	return false
}

func containsUint(list []uint, v uint) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
