package valueobjects

import "fmt"

type AssignmentType string

const (
	AssignmentTypeAuto         AssignmentType = "auto"
	AssignmentTypeManual       AssignmentType = "manual"
	AssignmentTypeGuestRequest AssignmentType = "guest_request"
	AssignmentTypeUpgrade      AssignmentType = "upgrade"
	AssignmentTypeDowngrade    AssignmentType = "downgrade"
)

var validAssignmentTypes = map[AssignmentType]bool{
	AssignmentTypeAuto:         true,
	AssignmentTypeManual:       true,
	AssignmentTypeGuestRequest: true,
	AssignmentTypeUpgrade:      true,
	AssignmentTypeDowngrade:    true,
}

func (t AssignmentType) String() string {
	return string(t)
}

func (t AssignmentType) IsValid() bool {
	return validAssignmentTypes[t]
}

func (t AssignmentType) IsAuto() bool {
	return t == AssignmentTypeAuto
}

func NewAssignmentType(s string) (AssignmentType, error) {
	t := AssignmentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid assignment type: %s", s)
	}
	return t, nil
}
