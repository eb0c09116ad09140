package valueobjects

import (
	"testing"
	"time"
)

func TestSeverityForLeadTime(t *testing.T) {
	tests := []struct {
		name string
		lead time.Duration
		want Severity
	}{
		{"checked in an hour ago", -1 * time.Hour, SeverityCritical},
		{"three hours out", 3 * time.Hour, SeverityCritical},
		{"exactly six hours", 6 * time.Hour, SeverityCritical},
		{"twelve hours out", 12 * time.Hour, SeverityWarning},
		{"exactly twenty-four hours", 24 * time.Hour, SeverityWarning},
		{"three days out", 72 * time.Hour, SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeverityForLeadTime(tt.lead); got != tt.want {
				t.Errorf("SeverityForLeadTime(%v) = %v, want %v", tt.lead, got, tt.want)
			}
		})
	}
}

// Shorter time-to-checkin must never yield a lower severity than a longer one.
func TestSeverityForLeadTime_Monotonic(t *testing.T) {
	leads := []time.Duration{
		0,
		30 * time.Minute,
		time.Hour,
		3 * time.Hour,
		6 * time.Hour,
		7 * time.Hour,
		12 * time.Hour,
		24 * time.Hour,
		25 * time.Hour,
		72 * time.Hour,
		30 * 24 * time.Hour,
	}

	for i := 1; i < len(leads); i++ {
		shorter := SeverityForLeadTime(leads[i-1])
		longer := SeverityForLeadTime(leads[i])
		if shorter.Rank() < longer.Rank() {
			t.Errorf("severity(%v)=%v ranks below severity(%v)=%v",
				leads[i-1], shorter, leads[i], longer)
		}
	}
}

func TestSeverity_AtLeast(t *testing.T) {
	if !SeverityCritical.AtLeast(SeverityWarning) {
		t.Error("critical should be at least warning")
	}
	if !SeverityEmergency.AtLeast(SeverityCritical) {
		t.Error("emergency should be at least critical")
	}
	if SeverityInfo.AtLeast(SeverityWarning) {
		t.Error("info should not be at least warning")
	}
	if !SeverityWarning.AtLeast(SeverityWarning) {
		t.Error("a severity should be at least itself")
	}
}
