package usecases

import (
	"context"
	"time"

	"innkeep/internal/domain/alert"
)

// EscalationNotifier delivers escalation notices to the widened recipient
// set. The email implementation lives in infrastructure.
type EscalationNotifier interface {
	NotifyEscalation(ctx context.Context, a *alert.AllocationAlert, recipients []string) error
}

// EscalationCooldown rate-limits repeat escalations of the same alert across
// processes. TryAcquire returns false while a previous escalation's cooldown
// is still running.
type EscalationCooldown interface {
	TryAcquire(ctx context.Context, alertID uint, ttl time.Duration) (bool, error)
}

// Assigner bridges bulk alert resolution to the assignment engine without
// the alert layer depending on its use cases directly.
type Assigner interface {
	// AssignAutomatically finds and assigns a room for the booking using the
	// given strategy, returning the new allocation ID.
	AssignAutomatically(ctx context.Context, bookingID uint, strategy, actor string) (uint, error)
	// AssignManually assigns the booking to a specific room.
	AssignManually(ctx context.Context, bookingID, roomID uint, actor string) (uint, error)
}
