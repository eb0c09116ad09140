package valueobjects

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityWarning   Severity = "warning"
	SeverityCritical  Severity = "critical"
	SeverityEmergency Severity = "emergency"
)

var severityRanks = map[Severity]int{
	SeverityInfo:      0,
	SeverityWarning:   1,
	SeverityCritical:  2,
	SeverityEmergency: 3,
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank orders severities: emergency > critical > warning > info.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

func NewSeverity(v string) (Severity, error) {
	s := Severity(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", v)
	}
	return s, nil
}

// SeverityForLeadTime maps the time remaining until check-in to a severity.
// The mapping is monotonic: a shorter lead never yields a lower severity.
func SeverityForLeadTime(untilCheckIn time.Duration) Severity {
	switch {
	case untilCheckIn <= 6*time.Hour:
		return SeverityCritical
	case untilCheckIn <= 24*time.Hour:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
