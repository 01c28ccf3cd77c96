package geom

import (
	"fmt"
	"sort"
)

// Interval is a half-open time window [Start, End) in milliseconds.
type Interval struct {
	Start int64
	End   int64
}

// Duration returns End-Start, or 0 for empty or inverted intervals.
func (iv Interval) Duration() int64 {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Contains reports whether t falls in [Start, End).
func (iv Interval) Contains(t int64) bool {
	return t >= iv.Start && t < iv.End
}

// Overlaps reports whether the two intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Intersect returns the overlap of two intervals. The result is empty when
// they do not overlap.
func (iv Interval) Intersect(other Interval) Interval {
	out := Interval{Start: iv.Start, End: iv.End}
	if other.Start > out.Start {
		out.Start = other.Start
	}
	if other.End < out.End {
		out.End = other.End
	}
	if out.End < out.Start {
		out.End = out.Start
	}
	return out
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d)", iv.Start, iv.End)
}

// CheckDisjoint returns an error if any interval is inverted or if any two
// intervals overlap. The input is not modified.
func CheckDisjoint(ivs []Interval) error {
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i, iv := range sorted {
		if iv.End < iv.Start {
			return fmt.Errorf("interval %s ends before it starts", iv)
		}
		if i > 0 && sorted[i-1].Overlaps(iv) {
			return fmt.Errorf("intervals %s and %s overlap", sorted[i-1], iv)
		}
	}
	return nil
}

// SearchFrom returns the index of the first item whose timestamp is >= t.
// items must be sorted by timestamp.
func SearchFrom[T any](items []T, ts func(T) int64, t int64) int {
	return sort.Search(len(items), func(i int) bool { return ts(items[i]) >= t })
}
