package scene

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/features"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
	"github.com/m-wu/EMDAT/internal/quality"
)

// testStreams has one sample every 10ms over [0,end). Samples inside any of
// the invalid intervals are tracking loss. One fixation starts every 100ms.
func testStreams(end int64, invalid ...geom.Interval) Streams {
	var s Streams
	for ts := int64(0); ts < end; ts += 10 {
		d := gaze.Datapoint{Timestamp: ts, X: gaze.Float(5), Y: gaze.Float(5), PupilLeft: gaze.Float(3)}
		for _, iv := range invalid {
			if iv.Contains(ts) {
				d = gaze.Datapoint{Timestamp: ts, Validity: gaze.ValidityLost}
			}
		}
		s.Samples = append(s.Samples, d)
		if ts%100 == 0 {
			s.Fixations = append(s.Fixations, gaze.Fixation{Timestamp: ts, Duration: 80, X: 5, Y: 5})
		}
	}
	s.Events = []gaze.Event{{Timestamp: 50, Label: gaze.EventLeftClick}, {Timestamp: 1500, Label: gaze.EventKeyPress}}
	return s
}

var percent20 = Options{
	RequireValid: true,
	Criteria:     quality.Criteria{Method: quality.PercentInvalid, MaxInvalidProportion: 0.2},
}

func TestReadSegsScenario(t *testing.T) {
	t.Parallel()

	defs, err := ReadSegs(strings.NewReader("s1\ta\t0\t1000\ns1\tb\t1000\t2000\n"))
	require.NoError(t, err)
	want := []SceneDef{{ID: "s1", Segments: []SegmentDef{{"a", 0, 1000}, {"b", 1000, 2000}}}}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Fatalf("defs mismatch (-want +got):\n%s", diff)
	}

	sc, err := New(defs[0], testStreams(2000), nil, percent20)
	require.NoError(t, err)
	assert.Equal(t, "s1", sc.ID)
	require.Len(t, sc.Segments, 2)
	assert.Equal(t, "a", sc.Segments[0].ID)
	assert.Equal(t, geom.Interval{Start: 0, End: 1000}, sc.Segments[0].Window)
	assert.Equal(t, "b", sc.Segments[1].ID)
	assert.Equal(t, geom.Interval{Start: 1000, End: 2000}, sc.Segments[1].Window)
	assert.Len(t, sc.Segments[0].Samples, 100)
	assert.Len(t, sc.Segments[1].Events, 1)
}

func TestReadSegsOrderAndErrors(t *testing.T) {
	t.Parallel()

	defs, err := ReadSegs(strings.NewReader("s2\tx\t0\t10\n\ns1\ty\t10\t20\ns2\tz\t20\t30\n"))
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "s2", defs[0].ID)
	assert.Len(t, defs[0].Segments, 2)

	_, err = ReadSegs(strings.NewReader("s1\ta\t0\n"))
	assert.Error(t, err)
	_, err = ReadSegs(strings.NewReader("s1\ta\tzero\t10\n"))
	assert.Error(t, err)
}

func TestSegsRoundTrip(t *testing.T) {
	t.Parallel()

	in := []SceneDef{
		{ID: "intro", Segments: []SegmentDef{{"i1", 0, 500}}},
		{ID: "task", Segments: []SegmentDef{{"t1", 500, 1500}, {"t2", 1500, 4000}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSegs(&buf, in))
	out, err := ReadSegs(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBadWindow(t *testing.T) {
	t.Parallel()

	_, err := BuildSegment("s", SegmentDef{"a", 100, 100}, testStreams(200), nil, percent20)
	assert.True(t, errors.Is(err, ErrBadWindow))

	_, err = New(SceneDef{ID: "s", Segments: []SegmentDef{{"a", 200, 100}}}, testStreams(200), nil, percent20)
	assert.True(t, errors.Is(err, ErrBadWindow))

	_, err = New(SceneDef{ID: "empty"}, testStreams(200), nil, percent20)
	assert.Error(t, err)
}

func TestPruneLength(t *testing.T) {
	t.Parallel()
	streams := testStreams(2000)

	opts := percent20
	opts.PruneLength = 300
	res, err := BuildSegment("s", SegmentDef{"a", 1000, 2000}, streams, nil, opts)
	require.NoError(t, err)
	seg := res.Segment
	assert.Equal(t, geom.Interval{Start: 1000, End: 1300}, seg.Window)
	require.Len(t, seg.Samples, 30)
	assert.Equal(t, int64(1000), seg.Samples[0].Timestamp)
	assert.Equal(t, int64(1290), seg.Samples[29].Timestamp)

	opts.PruneLength = 5000
	res, err = BuildSegment("s", SegmentDef{"a", 1000, 2000}, streams, nil, opts)
	require.NoError(t, err)
	unpruned, err := BuildSegment("s", SegmentDef{"a", 1000, 2000}, streams, nil, percent20)
	require.NoError(t, err)
	assert.Equal(t, unpruned.Segment.Window, res.Segment.Window)
	assert.Equal(t, unpruned.Segment.Samples, res.Segment.Samples)
}

func TestAutoPartition(t *testing.T) {
	t.Parallel()
	streams := testStreams(1000, geom.Interval{Start: 400, End: 900})

	opts := percent20
	opts.AutoPartition = true
	res, err := BuildSegment("s", SegmentDef{"seg", 0, 1000}, streams, nil, opts)
	require.NoError(t, err)

	assert.False(t, res.Segment.IsValid())
	require.True(t, res.Split())
	assert.Equal(t, geom.Interval{Start: 400, End: 900}, res.Gap.Interval)
	require.Len(t, res.Children, 2)

	first, second := res.Children[0], res.Children[1]
	assert.Equal(t, "seg_part1", first.ID)
	assert.Equal(t, "seg", first.ParentID)
	assert.Equal(t, geom.Interval{Start: 0, End: 400}, first.Window)
	assert.True(t, first.IsValid())
	assert.Len(t, first.Samples, 40)

	assert.Equal(t, "seg_part2", second.ID)
	assert.Equal(t, geom.Interval{Start: 900, End: 1000}, second.Window)
	assert.True(t, second.IsValid())
	assert.Len(t, second.Samples, 10)
}

func TestAutoPartitionDisabledOrValid(t *testing.T) {
	t.Parallel()
	streams := testStreams(1000, geom.Interval{Start: 400, End: 900})

	res, err := BuildSegment("s", SegmentDef{"seg", 0, 1000}, streams, nil, percent20)
	require.NoError(t, err)
	assert.False(t, res.Split())
	assert.Equal(t, []*Segment{res.Segment}, res.Segments())

	opts := percent20
	opts.AutoPartition = true
	res, err = BuildSegment("s", SegmentDef{"seg", 0, 400}, streams, nil, opts)
	require.NoError(t, err)
	assert.True(t, res.Segment.IsValid())
	assert.False(t, res.Split())
}

func TestAutoPartitionDropsEmptyChild(t *testing.T) {
	t.Parallel()
	// The gap runs to the end of the window, so only the leading child exists.
	streams := testStreams(1000, geom.Interval{Start: 500, End: 1000})

	opts := percent20
	opts.AutoPartition = true
	res, err := BuildSegment("s", SegmentDef{"seg", 0, 1000}, streams, nil, opts)
	require.NoError(t, err)
	require.True(t, res.Split())
	require.Len(t, res.Children, 1)
	assert.Equal(t, geom.Interval{Start: 0, End: 500}, res.Children[0].Window)
}

func TestSceneSplitsAndValidity(t *testing.T) {
	t.Parallel()
	streams := testStreams(2000, geom.Interval{Start: 400, End: 900}, geom.Interval{Start: 1000, End: 2000})
	def := SceneDef{ID: "s1", Segments: []SegmentDef{{"a", 0, 1000}, {"b", 1000, 2000}}}

	opts := percent20
	opts.AutoPartition = true
	sc, err := New(def, streams, nil, opts)
	require.NoError(t, err)

	var ids []string
	for _, s := range sc.Segments {
		ids = append(ids, s.ID)
	}
	// b is entirely invalid and has nothing to split around.
	assert.Equal(t, []string{"a_part1", "a_part2", "b"}, ids)
	require.Len(t, sc.Splits, 1)
	assert.Equal(t, 50, sc.Splits[0].RestoredSamples())
	assert.True(t, sc.IsValid())
	assert.Len(t, sc.ValidSegments(), 2)
	assert.Len(t, sc.InvalidSegments(), 1)
	assert.Equal(t, geom.Interval{Start: 0, End: 2000}, sc.Window())

	opts.AutoPartition = false
	sc, err = New(def, streams, nil, opts)
	require.NoError(t, err)
	assert.False(t, sc.IsValid())

	opts.RequireValid = false
	sc, err = New(def, streams, nil, opts)
	require.NoError(t, err)
	assert.True(t, sc.IsValid())
}

func TestRestPupilSizes(t *testing.T) {
	t.Parallel()
	def := SceneDef{ID: "s1", Segments: []SegmentDef{{"a", 0, 1000}}}

	opts := percent20
	opts.RestPupilSizes = map[string]float64{"other": 2}
	_, err := New(def, testStreams(1000), nil, opts)
	assert.True(t, errors.Is(err, ErrMissingRestPupilSize))

	opts.RestPupilSizes = map[string]float64{"s1": 2.5}
	sc, err := New(def, testStreams(1000), nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 2.5, sc.RestPupilSize)

	names, values := sc.Features(features.Request{Features: []string{"meanpupildilation"}})
	require.Equal(t, []string{"meanpupildilation"}, names)
	assert.Equal(t, "0.5", values[0].String())
}

func TestSceneFeaturesUseValidSegments(t *testing.T) {
	t.Parallel()
	streams := testStreams(2000, geom.Interval{Start: 1000, End: 2000})
	def := SceneDef{ID: "s1", Segments: []SegmentDef{{"a", 0, 1000}, {"b", 1000, 2000}}}
	box, err := aoi.New("box", geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, nil)
	require.NoError(t, err)

	req := features.Request{Features: []string{"numsegments", "length", "numfixations", "numevents"}, AOIFeatures: []string{"numfixations"}}

	sc, err := New(def, streams, []*aoi.AOI{box}, percent20)
	require.NoError(t, err)
	names, values := sc.Features(req)
	assert.Equal(t, []string{"numsegments", "length", "numfixations", "numevents", "box_numfixations"}, names)
	assert.Equal(t, []string{"1", "1000", "10", "1", "10"}, strs(values))

	opts := percent20
	opts.RequireValid = false
	sc, err = New(def, streams, []*aoi.AOI{box}, opts)
	require.NoError(t, err)
	_, values = sc.Features(req)
	assert.Equal(t, []string{"2", "2000", "20", "2", "20"}, strs(values))

	names, _ = sc.Segments[0].Features(req)
	assert.Equal(t, []string{"numsegments", "length", "numfixations", "numevents", "box_numfixations"}, names)
}

func strs(values []features.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}
