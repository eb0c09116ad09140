package valueobjects

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange_Validation(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"valid two-night stay", date(2025, 9, 10), date(2025, 9, 12), false},
		{"single night", date(2025, 9, 10), date(2025, 9, 11), false},
		{"equal start and end", date(2025, 9, 10), date(2025, 9, 10), true},
		{"inverted range", date(2025, 9, 12), date(2025, 9, 10), true},
		{"zero start", time.Time{}, date(2025, 9, 10), true},
		{"zero end", date(2025, 9, 10), time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDateRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    DateRange
		b    DateRange
		want bool
	}{
		{
			"identical ranges",
			MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			true,
		},
		{
			"partial overlap",
			MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			MustDateRange(date(2025, 9, 11), date(2025, 9, 13)),
			true,
		},
		{
			"contained range",
			MustDateRange(date(2025, 9, 10), date(2025, 9, 15)),
			MustDateRange(date(2025, 9, 11), date(2025, 9, 12)),
			true,
		},
		{
			"same-day turnover is not a conflict",
			MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			MustDateRange(date(2025, 9, 12), date(2025, 9, 14)),
			false,
		},
		{
			"touching at start",
			MustDateRange(date(2025, 9, 3), date(2025, 9, 5)),
			MustDateRange(date(2025, 9, 1), date(2025, 9, 3)),
			false,
		},
		{
			"fully disjoint",
			MustDateRange(date(2025, 9, 1), date(2025, 9, 3)),
			MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// The predicate must be symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := MustDateRange(date(2025, 9, 10), date(2025, 9, 12))

	if !r.Contains(date(2025, 9, 10)) {
		t.Error("Contains() should include the check-in date")
	}
	if !r.Contains(date(2025, 9, 11)) {
		t.Error("Contains() should include interior nights")
	}
	if r.Contains(date(2025, 9, 12)) {
		t.Error("Contains() must exclude the checkout date")
	}
	if r.Contains(date(2025, 9, 9)) {
		t.Error("Contains() must exclude days before check-in")
	}
}

func TestDateRange_Nights(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		want int
	}{
		{"one night", MustDateRange(date(2025, 9, 10), date(2025, 9, 11)), 1},
		{"two nights", MustDateRange(date(2025, 9, 10), date(2025, 9, 12)), 2},
		{"month-long stay", MustDateRange(date(2025, 9, 1), date(2025, 10, 1)), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Nights(); got != tt.want {
				t.Errorf("Nights() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []DateRange
		want []DateRange
	}{
		{
			"empty input",
			nil,
			nil,
		},
		{
			"overlapping ranges collapse",
			[]DateRange{
				MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
				MustDateRange(date(2025, 9, 11), date(2025, 9, 14)),
			},
			[]DateRange{MustDateRange(date(2025, 9, 10), date(2025, 9, 14))},
		},
		{
			"touching ranges collapse",
			[]DateRange{
				MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
				MustDateRange(date(2025, 9, 12), date(2025, 9, 13)),
			},
			[]DateRange{MustDateRange(date(2025, 9, 10), date(2025, 9, 13))},
		},
		{
			"disjoint ranges stay apart",
			[]DateRange{
				MustDateRange(date(2025, 9, 20), date(2025, 9, 22)),
				MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
			},
			[]DateRange{
				MustDateRange(date(2025, 9, 10), date(2025, 9, 12)),
				MustDateRange(date(2025, 9, 20), date(2025, 9, 22)),
			},
		},
		{
			"contained range vanishes",
			[]DateRange{
				MustDateRange(date(2025, 9, 10), date(2025, 9, 20)),
				MustDateRange(date(2025, 9, 12), date(2025, 9, 14)),
			},
			[]DateRange{MustDateRange(date(2025, 9, 10), date(2025, 9, 20))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeRanges(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("MergeRanges() returned %d ranges, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Start().Equal(tt.want[i].Start()) || !got[i].End().Equal(tt.want[i].End()) {
					t.Errorf("MergeRanges()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
