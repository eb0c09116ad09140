package valueobjects

import (
	"fmt"
	"sort"
	"time"
)

// DateRange is a half-open stay interval [start, end): the checkout date is
// not itself occupied, so a departing guest and an arriving guest may share
// the same calendar date in the same room. Any physical cleaning buffer is a
// housekeeping policy layered on top by callers, never part of this type.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a DateRange. The end date must be strictly after the
// start date.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, fmt.Errorf("start and end dates are required")
	}
	if !end.After(start) {
		return DateRange{}, fmt.Errorf("end date %s must be after start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return DateRange{start: start, end: end}, nil
}

// MustDateRange is a test/fixture helper that panics on an invalid range.
func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

// IsZero reports whether the range was never initialized.
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints do not overlap: [a, b) and [b, c) are disjoint. Every component
// of the engine must use this predicate; divergent overlap logic between the
// assignment path and the grid is the most dangerous bug class here.
func (r DateRange) Overlaps(other DateRange) bool {
	return !(r.end.Compare(other.start) <= 0 || r.start.Compare(other.end) >= 0)
}

// Contains reports whether the given day falls inside the range. The end
// date is excluded.
func (r DateRange) Contains(day time.Time) bool {
	return day.Compare(r.start) >= 0 && day.Compare(r.end) < 0
}

// Nights returns the number of nights the range spans.
func (r DateRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.start.Format(time.DateOnly), r.end.Format(time.DateOnly))
}

// MergeRanges collapses overlapping or touching ranges into a sorted minimal
// set. Merging is for presentation and gap arithmetic only; conflict checks
// always run against the unmerged source intervals so the offending
// allocation or block stays identifiable.
func MergeRanges(ranges []DateRange) []DateRange {
	if len(ranges) <= 1 {
		out := make([]DateRange, len(ranges))
		copy(out, ranges)
		return out
	}

	sorted := make([]DateRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].start.Before(sorted[j].start)
	})

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.start.Compare(last.end) <= 0 {
			if r.end.After(last.end) {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
