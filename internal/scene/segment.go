package scene

import (
	"errors"
	"fmt"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/features"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/geom"
	"github.com/m-wu/EMDAT/internal/quality"
)

// ErrBadWindow is returned for segment definitions whose start is not
// before their end.
var ErrBadWindow = errors.New("segment start must be before its end")

// Streams are the full session streams of a recording, each sorted by
// timestamp.
type Streams struct {
	Samples   []gaze.Datapoint
	Fixations []gaze.Fixation
	Events    []gaze.Event
}

// Segment is the atomic analysis unit: the data of one time window within
// a scene together with its quality assessment. A Segment is not modified
// after construction.
type Segment struct {
	ID      string
	SceneID string
	// ParentID names the segment this one was split from by
	// auto-partitioning. Empty for defined segments.
	ParentID string
	// Window is the span the data was taken from, after pruning.
	Window geom.Interval

	Samples   []gaze.Datapoint
	Fixations []gaze.Fixation
	Events    []gaze.Event
	Quality   quality.Assessment

	aois          []*aoi.AOI
	restPupilSize float64
}

// IsValid reports whether the segment passed its quality criteria.
func (s *Segment) IsValid() bool { return s.Quality.Valid }

// featureWindow exposes the segment data to the feature calculator.
func (s *Segment) featureWindow() features.Window {
	return features.Window{
		Interval:  s.Window,
		Samples:   s.Samples,
		Fixations: s.Fixations,
		Events:    s.Events,
		InvalidMs: geom.TotalDuration(s.Quality.Gaps, 0),
	}
}

// Features computes the segment's feature vector.
func (s *Segment) Features(req features.Request) ([]string, []features.Value) {
	return features.Compute(req, features.Input{
		Windows:       []features.Window{s.featureWindow()},
		AOIs:          s.aois,
		RestPupilSize: s.restPupilSize,
	})
}

// BuildResult is the outcome of building one defined segment: either the
// segment itself, or the children that replace it after auto-partitioning.
type BuildResult struct {
	// Segment is the segment as defined. It is always set.
	Segment *Segment
	// Children replace Segment when it was split. Nil otherwise.
	Children []*Segment
	// Gap is the gap discarded by the split.
	Gap geom.Gap
}

// Split reports whether the segment was replaced by children.
func (r BuildResult) Split() bool { return r.Children != nil }

// Segments returns the segments that take part in the scene.
func (r BuildResult) Segments() []*Segment {
	if r.Split() {
		return r.Children
	}
	return []*Segment{r.Segment}
}

// BuildSegment materialises one segment definition from the scene streams.
//
// With a prune length L > 0 the data window is [start, min(start+L, end)).
// When auto-partitioning is enabled and the segment is invalid, it is split
// around its largest gap into [start, gap.Start) and [gap.End, end). Empty
// children are dropped and the children are never split again.
func BuildSegment(sceneID string, def SegmentDef, streams Streams, aois []*aoi.AOI, opts Options) (BuildResult, error) {
	if def.Start >= def.End {
		return BuildResult{}, fmt.Errorf("segment %q [%d,%d): %w", def.ID, def.Start, def.End, ErrBadWindow)
	}
	window := geom.Interval{Start: def.Start, End: def.End}
	if opts.PruneLength > 0 {
		window = window.Intersect(geom.Interval{Start: def.Start, End: def.Start + opts.PruneLength})
	}

	seg := newSegment(sceneID, def.ID, "", window, streams, aois, opts)
	res := BuildResult{Segment: seg}
	if !opts.AutoPartition || seg.IsValid() || !seg.Quality.HasGaps() {
		return res, nil
	}

	gap := seg.Quality.Largest
	var children []*Segment
	parts := []geom.Interval{
		{Start: window.Start, End: gap.Start},
		{Start: gap.End, End: window.End},
	}
	for i, part := range parts {
		if part.Empty() {
			continue
		}
		id := fmt.Sprintf("%s_part%d", def.ID, i+1)
		children = append(children, newSegment(sceneID, id, def.ID, part, streams, aois, opts))
	}
	if len(children) == 0 {
		return res, nil
	}
	res.Children = children
	res.Gap = gap
	return res, nil
}

func newSegment(sceneID, id, parent string, window geom.Interval, streams Streams, aois []*aoi.AOI, opts Options) *Segment {
	s := &Segment{
		ID:            id,
		SceneID:       sceneID,
		ParentID:      parent,
		Window:        window,
		Samples:       within(streams.Samples, func(d gaze.Datapoint) int64 { return d.Timestamp }, window),
		Fixations:     within(streams.Fixations, func(f gaze.Fixation) int64 { return f.Timestamp }, window),
		Events:        within(streams.Events, func(e gaze.Event) int64 { return e.Timestamp }, window),
		aois:          aois,
		restPupilSize: opts.RestPupilSize,
	}
	s.Quality = quality.Assess(s.Samples, window, opts.Criteria)
	return s
}

// within returns the sub-slice of sorted items whose timestamp falls in w.
// The result shares the backing array but cannot be appended into it.
func within[T any](items []T, ts func(T) int64, w geom.Interval) []T {
	lo := geom.SearchFrom(items, ts, w.Start)
	hi := geom.SearchFrom(items, ts, w.End)
	if hi < lo {
		hi = lo
	}
	return items[lo:hi:hi]
}
