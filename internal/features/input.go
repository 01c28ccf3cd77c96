package features

import (
	"math"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
)

// Window is one contiguous span of data. Samples, fixations and events must
// already be restricted to Interval and sorted by timestamp.
type Window struct {
	Interval  geom.Interval
	Samples   []gaze.Datapoint
	Fixations []gaze.Fixation
	Events    []gaze.Event
	// InvalidMs is the time covered by gaps of invalid samples.
	InvalidMs int64
}

// Input is the data a feature vector is computed from: a single window for
// a segment, or several for a scene. Paths between fixations are never
// measured across two windows.
type Input struct {
	Windows []Window
	AOIs    []*aoi.AOI
	// RestPupilSize is subtracted from the mean pupil size to obtain the
	// dilation. Zero when unknown.
	RestPupilSize float64
}

// Context holds the derived series shared by every feature of one Compute
// call.
type Context struct {
	in *Input

	start     int64
	length    int64
	invalidMs int64
	samples   int
	valid     int

	fixations []gaze.Fixation
	durations []float64
	// pairs holds indices into fixations of consecutive fixations within
	// the same window.
	pairs       [][2]int
	paths       []float64
	saccadeMs   int64
	absAngles   []float64
	relAngles   []float64
	// pupils and distances hold readings of valid samples only.
	pupils      []float64
	distances   []float64
	events      []gaze.Event
	memberships [][]bool // [aoi][fixation]

	// Per-AOI readings of valid samples whose position falls in the AOI.
	aoiPupils    [][]float64
	aoiDistances [][]float64
}

func newContext(in *Input) *Context {
	c := &Context{in: in}
	for wi, w := range in.Windows {
		if wi == 0 {
			c.start = w.Interval.Start
		}
		c.length += w.Interval.Duration()
		c.invalidMs += w.InvalidMs
		c.samples += len(w.Samples)

		for _, s := range w.Samples {
			if !s.IsValid() {
				continue
			}
			c.valid++
			if p := s.PupilSize(); p > 0 {
				c.pupils = append(c.pupils, p)
			}
			if d := s.Distance(); d > 0 {
				c.distances = append(c.distances, d)
			}
		}
		c.events = append(c.events, w.Events...)

		base := len(c.fixations)
		var prevDX, prevDY float64
		havePrev := false
		for i, f := range w.Fixations {
			c.fixations = append(c.fixations, f)
			c.durations = append(c.durations, float64(f.Duration))
			if i == 0 {
				continue
			}
			prev := w.Fixations[i-1]
			c.pairs = append(c.pairs, [2]int{base + i - 1, base + i})

			dx, dy := f.X-prev.X, f.Y-prev.Y
			c.paths = append(c.paths, math.Hypot(dx, dy))
			if gap := f.Timestamp - prev.End(); gap > 0 {
				c.saccadeMs += gap
			}
			if dx == 0 && dy == 0 {
				continue
			}
			c.absAngles = append(c.absAngles, math.Abs(math.Atan2(dy, dx)))
			if havePrev {
				c.relAngles = append(c.relAngles, angleBetween(prevDX, prevDY, dx, dy))
			}
			prevDX, prevDY, havePrev = dx, dy, true
		}
	}

	c.memberships = make([][]bool, len(in.AOIs))
	c.aoiPupils = make([][]float64, len(in.AOIs))
	c.aoiDistances = make([][]float64, len(in.AOIs))
	for ai, a := range in.AOIs {
		m := make([]bool, len(c.fixations))
		for fi, f := range c.fixations {
			m[fi] = a.ContainsPoint(f.Point(), f.Timestamp)
		}
		c.memberships[ai] = m

		for _, w := range in.Windows {
			for _, s := range w.Samples {
				if !s.IsValid() || !a.Contains(s.X, s.Y, s.Timestamp) {
					continue
				}
				if p := s.PupilSize(); p > 0 {
					c.aoiPupils[ai] = append(c.aoiPupils[ai], p)
				}
				if d := s.Distance(); d > 0 {
					c.aoiDistances[ai] = append(c.aoiDistances[ai], d)
				}
			}
		}
	}
	return c
}

// angleBetween returns the angle in radians, within [0, pi], between two
// non-zero vectors.
func angleBetween(ax, ay, bx, by float64) float64 {
	cos := (ax*bx + ay*by) / (math.Hypot(ax, ay) * math.Hypot(bx, by))
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// Length returns the total duration of all windows in ms.
func (c *Context) Length() int64 { return c.length }

// Start returns the start of the first window.
func (c *Context) Start() int64 { return c.start }

// rate divides by the total length, or returns 0 for an empty input.
func (c *Context) rate(v float64) float64 {
	if c.length <= 0 {
		return 0
	}
	return v / float64(c.length)
}
