package features

import (
	"strings"

	"github.com/m-wu/EMDAT/internal/gaze"
)

// SequenceSeparator joins AOI names in the aoisequence feature.
const SequenceSeparator = "-"

func numeric(name, desc string, f func(c *Context) float64) *Definition {
	return &Definition{
		Name:        name,
		Description: desc,
		Default:     true,
		Compute:     func(c *Context) Value { return Number(f(c)) },
	}
}

func newScalarRegistry() *Registry {
	r := NewRegistry()
	defs := []*Definition{
		// Timing and sample quality
		numeric("length", "Total duration in ms", func(c *Context) float64 { return float64(c.length) }),
		numeric("length_invalid", "Time in ms covered by gaps of invalid samples", func(c *Context) float64 { return float64(c.invalidMs) }),
		numeric("numsegments", "Number of windows the features were computed over", func(c *Context) float64 { return float64(len(c.in.Windows)) }),
		numeric("numsamples", "Number of gaze samples", func(c *Context) float64 { return float64(c.samples) }),
		numeric("proportionvalid", "Share of gaze samples with a valid position", func(c *Context) float64 {
			if c.samples == 0 {
				return 0
			}
			return float64(c.valid) / float64(c.samples)
		}),

		// Fixations
		numeric("numfixations", "Number of fixations", func(c *Context) float64 { return float64(len(c.fixations)) }),
		numeric("fixationrate", "Fixations per ms", func(c *Context) float64 { return c.rate(float64(len(c.fixations))) }),
		numeric("meanfixationduration", "Mean fixation duration in ms", func(c *Context) float64 { return mean(c.durations) }),
		numeric("stddevfixationduration", "Standard deviation of fixation duration", func(c *Context) float64 { return stddev(c.durations) }),
		numeric("sumfixationduration", "Total fixation duration in ms", func(c *Context) float64 { return sum(c.durations) }),

		// Paths between consecutive fixations
		numeric("meanpathdistance", "Mean distance between consecutive fixations in px", func(c *Context) float64 { return mean(c.paths) }),
		numeric("sumpathdistance", "Total distance between consecutive fixations in px", func(c *Context) float64 { return sum(c.paths) }),
		numeric("stddevpathdistance", "Standard deviation of path distance", func(c *Context) float64 { return stddev(c.paths) }),
		numeric("eyemovementvelocity", "Path distance per ms spent between fixations", func(c *Context) float64 {
			if c.saccadeMs <= 0 {
				return Undefined
			}
			return sum(c.paths) / float64(c.saccadeMs)
		}),
		numeric("sumabspathangles", "Sum of path angles to the horizontal in radians", func(c *Context) float64 { return sum(c.absAngles) }),
		numeric("meanabspathangles", "Mean path angle to the horizontal", func(c *Context) float64 { return mean(c.absAngles) }),
		numeric("abspathanglesrate", "Sum of absolute path angles per ms", func(c *Context) float64 { return c.rate(sum(c.absAngles)) }),
		numeric("stddevabspathangles", "Standard deviation of absolute path angles", func(c *Context) float64 { return stddev(c.absAngles) }),
		numeric("sumrelpathangles", "Sum of angles between consecutive paths in radians", func(c *Context) float64 { return sum(c.relAngles) }),
		numeric("meanrelpathangles", "Mean angle between consecutive paths", func(c *Context) float64 { return mean(c.relAngles) }),
		numeric("relpathanglesrate", "Sum of relative path angles per ms", func(c *Context) float64 { return c.rate(sum(c.relAngles)) }),
		numeric("stddevrelpathangles", "Standard deviation of relative path angles", func(c *Context) float64 { return stddev(c.relAngles) }),

		// Pupil
		numeric("meanpupilsize", "Mean combined pupil size", func(c *Context) float64 { return mean(c.pupils) }),
		numeric("stddevpupilsize", "Standard deviation of pupil size", func(c *Context) float64 { return stddev(c.pupils) }),
		numeric("maxpupilsize", "Largest pupil size", func(c *Context) float64 { return maxOf(c.pupils) }),
		numeric("minpupilsize", "Smallest pupil size", func(c *Context) float64 { return minOf(c.pupils) }),
		numeric("startpupilsize", "First pupil size", func(c *Context) float64 { return first(c.pupils) }),
		numeric("endpupilsize", "Last pupil size", func(c *Context) float64 { return last(c.pupils) }),
		numeric("meanpupildilation", "Mean pupil size minus the rest pupil size", func(c *Context) float64 {
			if len(c.pupils) == 0 {
				return Undefined
			}
			return mean(c.pupils) - c.in.RestPupilSize
		}),

		// Eye to screen distance
		numeric("meandistance", "Mean eye to screen distance", func(c *Context) float64 { return mean(c.distances) }),
		numeric("stddevdistance", "Standard deviation of distance", func(c *Context) float64 { return stddev(c.distances) }),
		numeric("maxdistance", "Largest distance", func(c *Context) float64 { return maxOf(c.distances) }),
		numeric("mindistance", "Smallest distance", func(c *Context) float64 { return minOf(c.distances) }),
		numeric("startdistance", "First distance", func(c *Context) float64 { return first(c.distances) }),
		numeric("enddistance", "Last distance", func(c *Context) float64 { return last(c.distances) }),

		// External events
		numeric("numevents", "Number of logged events", func(c *Context) float64 { return float64(len(c.events)) }),
		numeric("numleftclic", "Number of left mouse clicks", func(c *Context) float64 { return c.countEvents(gaze.EventLeftClick) }),
		numeric("numrightclic", "Number of right mouse clicks", func(c *Context) float64 { return c.countEvents(gaze.EventRightClick) }),
		numeric("numdoubleclic", "Number of double clicks", func(c *Context) float64 { return c.countEvents(gaze.EventDoubleClick) }),
		numeric("numkeypressed", "Number of key presses", func(c *Context) float64 { return c.countEvents(gaze.EventKeyPress) }),
		numeric("timetofirstleftclic", "Time in ms to the first left click", func(c *Context) float64 { return c.timeToFirst(gaze.EventLeftClick) }),
		numeric("timetofirstrightclic", "Time in ms to the first right click", func(c *Context) float64 { return c.timeToFirst(gaze.EventRightClick) }),
		numeric("timetofirstdoubleclic", "Time in ms to the first double click", func(c *Context) float64 { return c.timeToFirst(gaze.EventDoubleClick) }),
		numeric("timetofirstkeypressed", "Time in ms to the first key press", func(c *Context) float64 { return c.timeToFirst(gaze.EventKeyPress) }),

		{
			Name:        "aoisequence",
			Description: "AOI visited by each fixation, in order",
			Compute:     func(c *Context) Value { return Text(c.aoiSequence()) },
		},
	}
	for _, d := range defs {
		r.mustRegister(d)
	}
	return r
}

func (c *Context) countEvents(label string) float64 {
	n := 0
	for _, e := range c.events {
		if e.Label == label {
			n++
		}
	}
	return float64(n)
}

func (c *Context) timeToFirst(label string) float64 {
	for _, e := range c.events {
		if e.Label == label {
			return float64(e.Timestamp - c.start)
		}
	}
	return Undefined
}

// aoiSequence names, for each fixation, the first AOI that contains it.
// Fixations outside every AOI are skipped.
func (c *Context) aoiSequence() string {
	var seq []string
	for fi := range c.fixations {
		for ai, m := range c.memberships {
			if m[fi] {
				seq = append(seq, c.in.AOIs[ai].Name)
				break
			}
		}
	}
	return strings.Join(seq, SequenceSeparator)
}
