package alert

import (
	"context"
	"time"

	vo "innkeep/internal/domain/alert/valueobjects"
)

// AlertRepository persists allocation alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *AllocationAlert) error
	Update(ctx context.Context, alert *AllocationAlert) error
	GetByID(ctx context.Context, id uint) (*AllocationAlert, error)
	// FindOpenByBookingID returns the booking's unresolved alert, nil when
	// none exists. At most one unresolved alert exists per booking.
	FindOpenByBookingID(ctx context.Context, bookingID uint) (*AllocationAlert, error)
	ListUnresolved(ctx context.Context, limit, offset int) ([]*AllocationAlert, int64, error)
	// ListStale returns unresolved alerts of at least the given severity
	// created before the cutoff. Used by the escalation sweep.
	ListStale(ctx context.Context, minSeverity vo.Severity, createdBefore time.Time) ([]*AllocationAlert, error)
}
