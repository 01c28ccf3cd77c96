package geom

// Gap is a maximal run of consecutive invalid samples. It starts at the
// first invalid sample and ends at the next valid sample, or at the end of
// the window when the run reaches it.
type Gap struct {
	Interval
	Samples int // invalid samples inside the run
}

// FindGaps scans timestamps in order and returns every run of invalid
// samples. ts must be sorted ascending and valid must have the same length.
// windowEnd closes a run that is still open after the last sample.
func FindGaps(ts []int64, valid []bool, windowEnd int64) []Gap {
	var gaps []Gap
	open := false
	var cur Gap
	for i, t := range ts {
		if !valid[i] {
			if !open {
				open = true
				cur = Gap{Interval: Interval{Start: t}}
			}
			cur.Samples++
			continue
		}
		if open {
			cur.End = t
			gaps = append(gaps, cur)
			open = false
		}
	}
	if open {
		cur.End = windowEnd
		if cur.End < cur.Start {
			cur.End = cur.Start
		}
		gaps = append(gaps, cur)
	}
	return gaps
}

// LargestGap returns the longest gap. Ties go to the earliest one.
// ok is false when gaps is empty.
func LargestGap(gaps []Gap) (largest Gap, ok bool) {
	for i, g := range gaps {
		if i == 0 || g.Duration() > largest.Duration() {
			largest = g
		}
	}
	return largest, len(gaps) > 0
}

// TotalDuration sums the durations of the gaps. When minDuration > 0 only
// gaps strictly longer than minDuration are counted.
func TotalDuration(gaps []Gap, minDuration int64) int64 {
	var total int64
	for _, g := range gaps {
		d := g.Duration()
		if minDuration > 0 && d <= minDuration {
			continue
		}
		total += d
	}
	return total
}
