package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
	"github.com/m-wu/EMDAT/internal/participant"
	"github.com/m-wu/EMDAT/internal/quality"
	"github.com/m-wu/EMDAT/internal/recording"
	"github.com/m-wu/EMDAT/internal/scene"
)

// cohortOf builds one participant whose scene s1 has a valid segment b and
// a segment a that loses tracking during [400,900).
func cohortOf(t *testing.T, autoPartition bool) []*participant.Participant {
	t.Helper()
	var streams scene.Streams
	for ts := int64(0); ts < 2000; ts += 10 {
		d := gaze.Datapoint{Timestamp: ts, X: gaze.Float(1), Y: gaze.Float(1)}
		if ts >= 400 && ts < 900 {
			d = gaze.Datapoint{Timestamp: ts, Validity: gaze.ValidityLost}
		}
		streams.Samples = append(streams.Samples, d)
	}
	opts := scene.Options{
		RequireValid:  true,
		AutoPartition: autoPartition,
		Criteria:      quality.Criteria{Method: quality.PercentInvalid, MaxInvalidProportion: 0.2},
	}
	def := scene.SceneDef{ID: "s1", Segments: []scene.SegmentDef{{ID: "a", Start: 0, End: 1000}, {ID: "b", Start: 1000, End: 2000}}}
	sc, err := scene.New(def, streams, nil, opts)
	require.NoError(t, err)
	res := &recording.Result{Scenes: []*scene.Scene{sc}, Segments: sc.Segments}
	return []*participant.Participant{participant.New("p1", opts, res)}
}

func TestSegmentValiditySweep(t *testing.T) {
	t.Parallel()
	ps := cohortOf(t, false)
	rows := SegmentValiditySweep(ps, Sweep{
		InvalidProportions:   []float64{0.4, 0.6},
		GapThresholdsMs:      []int64{100, 600},
		MaxInvalidProportion: 0.2,
	})
	require.Len(t, rows, 12)

	var a []SweepRow
	for _, r := range rows {
		if r.SegmentID == "a" {
			a = append(a, r)
		}
	}
	require.Len(t, a, 6)
	want := []struct {
		method    quality.Method
		threshold float64
		valid     bool
	}{
		{quality.PercentInvalid, 0.4, false},
		{quality.PercentInvalid, 0.6, true},
		{quality.LongestGap, 100, false},
		{quality.LongestGap, 600, true},
		{quality.GapThreshold, 100, false},
		{quality.GapThreshold, 600, true},
	}
	for i, w := range want {
		assert.Equal(t, w.method, a[i].Method, "row %d", i)
		assert.Equal(t, w.threshold, a[i].Threshold, "row %d", i)
		assert.Equal(t, w.valid, a[i].Valid, "row %d", i)
	}
	assert.InDelta(t, 0.5, a[0].Score, 1e-9)
	assert.Equal(t, 500.0, a[2].Score)
}

func TestSweepFromConfig(t *testing.T) {
	t.Parallel()
	s := SweepFromConfig(config.EmptyAnalysisConfig())
	assert.Equal(t, []int64{100, 200, 250, 300}, s.GapThresholdsMs)
	assert.Len(t, s.criteria(), len(s.InvalidProportions)+2*len(s.GapThresholdsMs))
}

func TestPercentDiscarded(t *testing.T) {
	t.Parallel()
	rows := PercentDiscarded(cohortOf(t, false))
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, DiscardRow{ParticipantID: "p1", Segments: 2, InvalidSegments: 1, Samples: 200, DiscardedSamples: 100}, r)
	assert.Equal(t, 50.0, r.PercentSegments())
	assert.Equal(t, 50.0, r.PercentSamples())
	assert.Equal(t, 0.0, DiscardRow{}.PercentSamples())
}

func TestParticipantValidityRestoredSamples(t *testing.T) {
	t.Parallel()

	rows := ParticipantValidity(cohortOf(t, true))
	require.Len(t, rows, 1)
	assert.Equal(t, ParticipantRow{
		ParticipantID:   "p1",
		Valid:           true,
		Scenes:          1,
		ValidScenes:     1,
		SplitSegments:   1,
		DefinedSamples:  200,
		RestoredSamples: 50,
		LostSamples:     50,
	}, rows[0])

	rows = ParticipantValidity(cohortOf(t, false))
	assert.Equal(t, 0, rows[0].RestoredSamples)
	assert.Equal(t, 100, rows[0].LostSamples)
}

func TestCSVWriters(t *testing.T) {
	t.Parallel()
	ps := cohortOf(t, true)

	var buf bytes.Buffer
	require.NoError(t, WriteDiscardedCSV(&buf, PercentDiscarded(ps)))
	assert.Equal(t, "part_id,segments,invalid_segments,percent_segments_discarded,samples,discarded_samples,percent_samples_discarded\n"+
		"p1,3,0,0,150,0,0\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteParticipantCSV(&buf, ParticipantValidity(ps)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "p1,true,1,1,1,200,50,50", lines[1])

	buf.Reset()
	rows := SegmentValiditySweep(ps, Sweep{GapThresholdsMs: []int64{300}})
	require.NoError(t, WriteSweepCSV(&buf, rows))
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "part_id,sc_id,seg_id,method,threshold,score,valid", lines[0])
	assert.Equal(t, "p1,s1,a_part1,longest_gap,300,0,true", lines[1])
}

func TestRenderValidityCharts(t *testing.T) {
	t.Parallel()
	ps := cohortOf(t, false)

	var buf bytes.Buffer
	sweep := SegmentValiditySweep(ps, Sweep{GapThresholdsMs: []int64{100, 600}})
	require.NoError(t, RenderValidityCharts(&buf, PercentDiscarded(ps), sweep))
	html := buf.String()
	assert.Contains(t, html, "Discarded data")
	assert.Contains(t, html, "Valid segments by longest-gap threshold")

	labels, shares := validShareByGap(sweep)
	assert.Equal(t, []string{"100", "600"}, labels)
	assert.Equal(t, []float64{50, 100}, shares)
}

func TestFixtureGap(t *testing.T) {
	t.Parallel()
	ps := cohortOf(t, false)
	a := ps[0].Segments[0]
	require.Len(t, a.Quality.Gaps, 1)
	assert.Equal(t, geom.Interval{Start: 400, End: 900}, a.Quality.Gaps[0].Interval)
}
