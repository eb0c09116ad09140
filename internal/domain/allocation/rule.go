package allocation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"innkeep/internal/domain/booking"
)

// RuleSchemaVersion versions the recognized condition/action keys.
const RuleSchemaVersion = 1

var ruleValidate = validator.New()

// RuleConditions enumerates the recognized, typed conditions an allocation
// rule may carry. Conditions are validated when the rule is written, never
// at assignment time.
type RuleConditions struct {
	// MinDaysAdvance requires the booking to be made at least this many days
	// before check-in for the rule to apply.
	MinDaysAdvance *int `validate:"omitempty,min=0"`
	// MinNights requires a minimum stay length.
	MinNights *int `validate:"omitempty,min=1"`
	// RoomTypes restricts the rule to bookings for these room types.
	RoomTypes []uint `validate:"dive,min=1"`
	// VIPOnly restricts the rule to VIP bookings.
	VIPOnly bool
}

// RuleAction is the typed effect a matching rule applies to strategy scoring.
type RuleAction struct {
	// ScoreAdjustment is added to every candidate room's score.
	ScoreAdjustment float64
	// PreferFloors adds a bonus for candidate rooms on these floors.
	PreferFloors []int
}

// AllocationRule is a declarative condition-to-action policy consumed by the
// assignment engine to bias strategy scoring. Rules are owned and edited
// externally and read-only at assignment time; they are applied in priority
// order and the first matching rule wins.
type AllocationRule struct {
	ID            uint
	Name          string `validate:"required,max=120"`
	Priority      int    `validate:"min=0"`
	Enabled       bool
	SchemaVersion int `validate:"required,min=1"`
	Conditions    RuleConditions
	Action        RuleAction
}

// Validate checks the rule document before it is written.
func (r *AllocationRule) Validate() error {
	if err := ruleValidate.Struct(r); err != nil {
		return fmt.Errorf("invalid allocation rule: %w", err)
	}
	if err := ruleValidate.Struct(&r.Conditions); err != nil {
		return fmt.Errorf("invalid allocation rule conditions: %w", err)
	}
	return nil
}

// Matches reports whether the rule's conditions hold for a booking at the
// given evaluation time.
func (r *AllocationRule) Matches(b booking.BookingView, now time.Time) bool {
	if !r.Enabled {
		return false
	}
	if r.Conditions.VIPOnly && !b.IsVIP {
		return false
	}
	if len(r.Conditions.RoomTypes) > 0 && !containsUint(r.Conditions.RoomTypes, b.RoomTypeID) {
		return false
	}
	if r.Conditions.MinNights != nil {
		if b.Stay().Nights() < *r.Conditions.MinNights {
			return false
		}
	}
	if r.Conditions.MinDaysAdvance != nil {
		advance := int(b.CheckInDate.Sub(now).Hours() / 24)
		if advance < *r.Conditions.MinDaysAdvance {
			return false
		}
	}
	return true
}

// FloorBonus returns the action's bonus for the given floor, zero when the
// floor is not preferred.
func (a *RuleAction) FloorBonus(floor int) float64 {
	for _, f := range a.PreferFloors {
		if f == floor {
			return 1
		}
	}
	return 0
}
