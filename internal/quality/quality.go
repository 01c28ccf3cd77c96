// Package quality scores the gaze sample quality of a time window and
// classifies it as valid or invalid.
package quality

import (
	"fmt"

	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
)

// Method selects how a window's quality score is computed.
type Method int

const (
	// PercentInvalid scores the proportion of invalid samples.
	PercentInvalid Method = iota
	// LongestGap scores the duration in ms of the longest gap.
	LongestGap
	// GapThreshold scores the proportion of the window covered by gaps
	// longer than Criteria.GapThresholdMs.
	GapThreshold
)

// Methods lists every method in a stable order.
var Methods = []Method{PercentInvalid, LongestGap, GapThreshold}

func (m Method) String() string {
	switch m {
	case PercentInvalid:
		return config.MethodPercentInvalid
	case LongestGap:
		return config.MethodLongestGap
	case GapThreshold:
		return config.MethodGapThreshold
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a configured method name to a Method.
func ParseMethod(name string) (Method, error) {
	for _, m := range Methods {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown validity method %q", name)
}

// Criteria holds the thresholds a window is checked against.
type Criteria struct {
	Method               Method
	MaxInvalidProportion float64
	MaxGapMs             int64
	GapThresholdMs       int64
}

// CriteriaFromConfig builds Criteria from an analysis config.
func CriteriaFromConfig(cfg *config.AnalysisConfig) (Criteria, error) {
	m, err := ParseMethod(cfg.GetValidityMethod())
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{
		Method:               m,
		MaxInvalidProportion: cfg.GetMaxInvalidProportion(),
		MaxGapMs:             cfg.GetMaxGapMs(),
		GapThresholdMs:       cfg.GetGapThresholdMs(),
	}, nil
}

// Threshold returns the limit the score is compared with.
func (c Criteria) Threshold() float64 {
	if c.Method == LongestGap {
		return float64(c.MaxGapMs)
	}
	return c.MaxInvalidProportion
}

// Assessment is the quality classification of one window.
type Assessment struct {
	Window         geom.Interval
	Samples        int
	InvalidSamples int
	Gaps           []geom.Gap
	// Largest is only meaningful when len(Gaps) > 0.
	Largest geom.Gap
	Score   float64
	Valid   bool
}

// ProportionValid returns the share of valid samples, 0 for an empty window.
func (a Assessment) ProportionValid() float64 {
	if a.Samples == 0 {
		return 0
	}
	return float64(a.Samples-a.InvalidSamples) / float64(a.Samples)
}

// HasGaps reports whether any gap was found.
func (a Assessment) HasGaps() bool {
	return len(a.Gaps) > 0
}

// Assess scores samples, which must already be restricted to window and
// sorted by timestamp. A window with no samples at all is scored as if it
// were entirely missing and is always invalid.
func Assess(samples []gaze.Datapoint, window geom.Interval, c Criteria) Assessment {
	a := Assessment{Window: window, Samples: len(samples)}

	ts := make([]int64, len(samples))
	valid := make([]bool, len(samples))
	for i, s := range samples {
		ts[i] = s.Timestamp
		valid[i] = s.IsValid()
		if !valid[i] {
			a.InvalidSamples++
		}
	}
	a.Gaps = geom.FindGaps(ts, valid, window.End)
	a.Largest, _ = geom.LargestGap(a.Gaps)

	if len(samples) == 0 {
		a.Score = 1
		if c.Method == LongestGap {
			a.Score = float64(window.Duration())
		}
		return a
	}

	switch c.Method {
	case LongestGap:
		a.Score = float64(a.Largest.Duration())
	case GapThreshold:
		if d := window.Duration(); d > 0 {
			a.Score = float64(geom.TotalDuration(a.Gaps, c.GapThresholdMs)) / float64(d)
		}
	default:
		a.Score = float64(a.InvalidSamples) / float64(len(samples))
	}
	a.Valid = a.Score <= c.Threshold()
	return a
}
