package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
)

// stream builds samples every step ms over [0,end) and marks those whose
// timestamp falls in one of the invalid intervals as tracking loss.
func stream(end, step int64, invalid ...geom.Interval) []gaze.Datapoint {
	var out []gaze.Datapoint
	for ts := int64(0); ts < end; ts += step {
		d := gaze.Datapoint{Timestamp: ts, X: gaze.Float(1), Y: gaze.Float(1)}
		for _, iv := range invalid {
			if iv.Contains(ts) {
				d.X, d.Y = nil, nil
				d.Validity = gaze.ValidityLost
			}
		}
		out = append(out, d)
	}
	return out
}

func TestParseMethod(t *testing.T) {
	t.Parallel()
	for _, m := range Methods {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMethod("bogus")
	assert.Error(t, err)
}

func TestCriteriaFromConfig(t *testing.T) {
	t.Parallel()

	c, err := CriteriaFromConfig(config.EmptyAnalysisConfig())
	require.NoError(t, err)
	assert.Equal(t, Criteria{Method: PercentInvalid, MaxInvalidProportion: 0.2, MaxGapMs: 300, GapThresholdMs: 300}, c)

	m := config.MethodLongestGap
	cfg := config.EmptyAnalysisConfig()
	cfg.ValidityMethod = &m
	c, err = CriteriaFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, LongestGap, c.Method)
	assert.Equal(t, 300.0, c.Threshold())
}

func TestPercentInvalidThreshold(t *testing.T) {
	t.Parallel()

	w := geom.Interval{Start: 0, End: 1000}
	samples := stream(1000, 10, geom.Interval{Start: 0, End: 500})

	strict := Assess(samples, w, Criteria{Method: PercentInvalid, MaxInvalidProportion: 0.4})
	assert.InDelta(t, 0.5, strict.Score, 1e-9)
	assert.False(t, strict.Valid)

	lenient := Assess(samples, w, Criteria{Method: PercentInvalid, MaxInvalidProportion: 0.6})
	assert.True(t, lenient.Valid)
	assert.InDelta(t, 0.5, lenient.ProportionValid(), 1e-9)
}

func TestLongestGap(t *testing.T) {
	t.Parallel()

	w := geom.Interval{Start: 0, End: 1000}
	samples := stream(1000, 10, geom.Interval{Start: 100, End: 150}, geom.Interval{Start: 400, End: 900})

	a := Assess(samples, w, Criteria{Method: LongestGap, MaxGapMs: 300})
	require.Len(t, a.Gaps, 2)
	assert.Equal(t, geom.Interval{Start: 400, End: 900}, a.Largest.Interval)
	assert.Equal(t, 500.0, a.Score)
	assert.False(t, a.Valid)

	a = Assess(samples, w, Criteria{Method: LongestGap, MaxGapMs: 500})
	assert.True(t, a.Valid, "a gap equal to the limit is tolerated")
}

func TestGapThreshold(t *testing.T) {
	t.Parallel()

	w := geom.Interval{Start: 0, End: 1000}
	// Gaps of 50ms and 200ms. Only the second exceeds a 100ms threshold.
	samples := stream(1000, 10, geom.Interval{Start: 100, End: 150}, geom.Interval{Start: 600, End: 800})

	a := Assess(samples, w, Criteria{Method: GapThreshold, GapThresholdMs: 100, MaxInvalidProportion: 0.1})
	assert.InDelta(t, 0.2, a.Score, 1e-9)
	assert.False(t, a.Valid)

	a = Assess(samples, w, Criteria{Method: GapThreshold, GapThresholdMs: 250, MaxInvalidProportion: 0.1})
	assert.Equal(t, 0.0, a.Score)
	assert.True(t, a.Valid)
}

func TestTrailingGapRunsToWindowEnd(t *testing.T) {
	t.Parallel()

	w := geom.Interval{Start: 0, End: 1000}
	samples := stream(1000, 10, geom.Interval{Start: 700, End: 1000})
	a := Assess(samples, w, Criteria{Method: LongestGap, MaxGapMs: 1000})
	require.Len(t, a.Gaps, 1)
	assert.Equal(t, int64(1000), a.Largest.End)
	assert.Equal(t, 300.0, a.Score)
}

func TestEmptyWindowIsInvalid(t *testing.T) {
	t.Parallel()

	w := geom.Interval{Start: 0, End: 1000}
	for _, m := range Methods {
		a := Assess(nil, w, Criteria{Method: m, MaxInvalidProportion: 1, MaxGapMs: 10000, GapThresholdMs: 0})
		assert.False(t, a.Valid, m.String())
		assert.False(t, a.HasGaps())
		assert.Equal(t, 0.0, a.ProportionValid())
	}
}
