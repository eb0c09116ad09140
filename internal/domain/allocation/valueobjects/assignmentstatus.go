package valueobjects

import "fmt"

type AssignmentStatus string

const (
	AssignmentStatusPreAssigned AssignmentStatus = "pre_assigned"
	AssignmentStatusAssigned    AssignmentStatus = "assigned"
	AssignmentStatusLocked      AssignmentStatus = "locked"
	AssignmentStatusCancelled   AssignmentStatus = "cancelled"
)

var validAssignmentStatuses = map[AssignmentStatus]bool{
	AssignmentStatusPreAssigned: true,
	AssignmentStatusAssigned:    true,
	AssignmentStatusLocked:      true,
	AssignmentStatusCancelled:   true,
}

func (s AssignmentStatus) String() string {
	return string(s)
}

func (s AssignmentStatus) IsValid() bool {
	return validAssignmentStatuses[s]
}

// IsActive reports whether the allocation occupies its room. Only assigned
// and locked allocations participate in conflict checks.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentStatusAssigned || s == AssignmentStatusLocked
}

func (s AssignmentStatus) IsCancelled() bool {
	return s == AssignmentStatusCancelled
}

func NewAssignmentStatus(v string) (AssignmentStatus, error) {
	s := AssignmentStatus(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid assignment status: %s", v)
	}
	return s, nil
}
