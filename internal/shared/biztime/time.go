// Package biztime provides utilities for property-timezone calculations.
// All storage and transport use UTC. The property timezone is only used for
// calculating stay-date boundaries (check-in day, checkout day, month edges).
//
// Design principles:
//   - All time storage is in UTC
//   - Stay dates are calendar dates in the property timezone
//   - Day/month boundaries are computed in the property timezone first, then
//     converted to UTC for queries
//   - Implicit Local timezone is prohibited
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default property timezone.
	DefaultTimezone = "Asia/Ho_Chi_Minh"
)

var (
	propLocation     *time.Location
	propLocationOnce sync.Once
	initErr          error
)

// Init initializes the property timezone. Should be called once at startup.
// If tz is empty, defaults to Asia/Ho_Chi_Minh.
func Init(tz string) error {
	propLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		propLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the property timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize property timezone %q: %v", tz, err))
	}
}

// Location returns the property timezone location, auto-initializing with the
// default timezone when Init was never called.
func Location() *time.Location {
	if propLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return propLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateOf truncates t to the calendar date it falls on in the property
// timezone, returned as midnight UTC. Stay dates are stored in this form.
func DateOf(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns the UTC instant at which the given stay date begins in
// the property timezone.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, Location()).UTC()
}

// MonthRange returns the first day of the month and the first day of the next
// month, both as midnight-UTC stay dates.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}
