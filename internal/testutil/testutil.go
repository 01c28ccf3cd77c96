// Package testutil provides shared gaze recording fixtures for tests.
package testutil

import (
	"fmt"
	"path"
	"strings"

	"github.com/m-wu/EMDAT/internal/config"
)

// BoxAOI is a 10x10 AOI at the origin, active for the whole recording.
const BoxAOI = "box\t0,0\t10,0\t10,10\t0,10\n"

// TwoScenes splits a 2s session into scenes s1 and s2 of one segment each.
const TwoScenes = "s1\ta\t0\t1000\ns2\tb\t1000\t2000\n"

// SamplesTSV renders one sample every step ms over [0,end) at (5,5) with
// both pupils at 3. Samples from lossFrom on are tracking loss.
func SamplesTSV(end, step, lossFrom int) string {
	var b strings.Builder
	b.WriteString("timestamp\tx\ty\tpupil_left\tpupil_right\n")
	for ts := 0; ts < end; ts += step {
		if ts >= lossFrom {
			fmt.Fprintf(&b, "%d\t\t\t\t\n", ts)
			continue
		}
		fmt.Fprintf(&b, "%d\t5\t5\t3\t3\n", ts)
	}
	return b.String()
}

// FixationsTSV renders a fixation of the given duration at (5,5) every
// step ms over [0,end).
func FixationsTSV(end, step, duration int) string {
	var b strings.Builder
	b.WriteString("timestamp\tduration\tx\ty\n")
	for ts := 0; ts < end; ts += step {
		fmt.Fprintf(&b, "%d\t%d\t5\t5\n", ts, duration)
	}
	return b.String()
}

// WriteFunc stores one fixture file.
type WriteFunc func(name string, data []byte)

// WriteSession stores a 2s session for id under dir: samples every 10ms,
// lost from lossFrom on, and a 60ms fixation inside BoxAOI every 100ms.
func WriteSession(write WriteFunc, dir, id string, lossFrom int) config.ParticipantFiles {
	p := func(name string) string { return path.Join(dir, id, name) }

	write(p("all.tsv"), []byte(SamplesTSV(2000, 10, lossFrom)))
	write(p("fix.tsv"), []byte(FixationsTSV(2000, 100, 60)))
	write(p("rec.seg"), []byte(TwoScenes))
	write(p("screen.aoi"), []byte(BoxAOI))

	return config.ParticipantFiles{
		ID: id,
		Recordings: []config.RecordingFiles{{
			Samples:   p("all.tsv"),
			Fixations: p("fix.tsv"),
			Segments:  p("rec.seg"),
		}},
		AOIs: p("screen.aoi"),
	}
}
