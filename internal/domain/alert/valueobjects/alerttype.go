package valueobjects

import "fmt"

type AlertType string

const (
	AlertTypeUnassigned24h      AlertType = "unassigned_24h"
	AlertTypeUnassigned1h       AlertType = "unassigned_1h"
	AlertTypeUnassignedCritical AlertType = "unassigned_critical"
	AlertTypeConflictDetected   AlertType = "conflict_detected"
	AlertTypeUpgradeAvailable   AlertType = "upgrade_available"
	AlertTypeRoomBlocked        AlertType = "room_blocked"
	AlertTypeAssignmentFailed   AlertType = "assignment_failed"
	AlertTypeRateChangeRequired AlertType = "rate_change_required"
)

var validAlertTypes = map[AlertType]bool{
	AlertTypeUnassigned24h:      true,
	AlertTypeUnassigned1h:       true,
	AlertTypeUnassignedCritical: true,
	AlertTypeConflictDetected:   true,
	AlertTypeUpgradeAvailable:   true,
	AlertTypeRoomBlocked:        true,
	AlertTypeAssignmentFailed:   true,
	AlertTypeRateChangeRequired: true,
}

func (t AlertType) String() string {
	return string(t)
}

func (t AlertType) IsValid() bool {
	return validAlertTypes[t]
}

// IsUnassigned reports whether the alert signals a booking without a room.
func (t AlertType) IsUnassigned() bool {
	return t == AlertTypeUnassigned24h || t == AlertTypeUnassigned1h || t == AlertTypeUnassignedCritical
}

func NewAlertType(s string) (AlertType, error) {
	t := AlertType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid alert type: %s", s)
	}
	return t, nil
}
