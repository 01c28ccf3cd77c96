// Package scene builds Scenes and Segments, the analysis units of a
// recording, from scene definitions and the raw session streams.
package scene

import (
	"errors"
	"fmt"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/features"
	"github.com/m-wu/EMDAT/internal/geom"
	"github.com/m-wu/EMDAT/internal/monitoring"
	"github.com/m-wu/EMDAT/internal/quality"
)

// ErrMissingRestPupilSize is returned when a rest pupil size table is given
// but has no entry for the scene.
var ErrMissingRestPupilSize = errors.New("no rest pupil size for scene")

// Options controls scene and segment construction.
type Options struct {
	// PruneLength limits each segment to its first PruneLength ms. Zero
	// disables pruning.
	PruneLength int64
	// RequireValid restricts scene features and scene validity to valid
	// segments.
	RequireValid  bool
	AutoPartition bool
	Criteria      quality.Criteria

	// RestPupilSizes maps scene id to rest pupil size. When nil no table is
	// used and RestPupilSize is used for every scene.
	RestPupilSizes map[string]float64
	RestPupilSize  float64
}

// SplitRecord keeps a defined segment that auto-partitioning replaced,
// for restored-sample accounting.
type SplitRecord struct {
	Original *Segment
	Gap      geom.Gap
	Children []*Segment
}

// RestoredSamples counts the samples of valid children: data that would
// have been discarded with the original segment.
func (r SplitRecord) RestoredSamples() int {
	n := 0
	for _, c := range r.Children {
		if c.IsValid() {
			n += c.Quality.Samples
		}
	}
	return n
}

// Scene is a named collection of segments sharing a time scope. A Scene is
// not modified after construction.
type Scene struct {
	ID string
	// Segments are the final segments in definition order, with split
	// segments replaced by their children.
	Segments []*Segment
	Splits   []SplitRecord
	AOIs     []*aoi.AOI

	RestPupilSize float64
	requireValid  bool
}

// New builds a scene from its definition. AOIs are attached unfiltered to
// every segment; relevance is decided when features are computed.
func New(def SceneDef, streams Streams, aois []*aoi.AOI, opts Options) (*Scene, error) {
	if len(def.Segments) == 0 {
		return nil, fmt.Errorf("scene %q has no segments", def.ID)
	}
	if opts.RestPupilSizes != nil {
		rps, ok := opts.RestPupilSizes[def.ID]
		if !ok {
			return nil, fmt.Errorf("scene %q: %w", def.ID, ErrMissingRestPupilSize)
		}
		opts.RestPupilSize = rps
	}

	sc := &Scene{
		ID:            def.ID,
		AOIs:          aois,
		RestPupilSize: opts.RestPupilSize,
		requireValid:  opts.RequireValid,
	}
	for _, sd := range def.Segments {
		res, err := BuildSegment(def.ID, sd, streams, aois, opts)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", def.ID, err)
		}
		if res.Split() {
			monitoring.Debugf("scene %s: segment %s split around gap %s into %d part(s)",
				def.ID, sd.ID, res.Gap.Interval, len(res.Children))
			sc.Splits = append(sc.Splits, SplitRecord{Original: res.Segment, Gap: res.Gap, Children: res.Children})
		}
		sc.Segments = append(sc.Segments, res.Segments()...)
	}
	return sc, nil
}

// IsValid reports whether the scene keeps at least one valid segment. It is
// always true when valid segments are not required.
func (s *Scene) IsValid() bool {
	if !s.requireValid {
		return true
	}
	return len(s.ValidSegments()) > 0
}

// ValidSegments returns the valid segments in order.
func (s *Scene) ValidSegments() []*Segment {
	var out []*Segment
	for _, seg := range s.Segments {
		if seg.IsValid() {
			out = append(out, seg)
		}
	}
	return out
}

// InvalidSegments returns the invalid segments in order.
func (s *Scene) InvalidSegments() []*Segment {
	var out []*Segment
	for _, seg := range s.Segments {
		if !seg.IsValid() {
			out = append(out, seg)
		}
	}
	return out
}

// FeatureSegments returns the segments scene features are computed over.
func (s *Scene) FeatureSegments() []*Segment {
	if s.requireValid {
		return s.ValidSegments()
	}
	return s.Segments
}

// Window returns the span from the first segment start to the last
// segment end.
func (s *Scene) Window() geom.Interval {
	var w geom.Interval
	for i, seg := range s.Segments {
		if i == 0 || seg.Window.Start < w.Start {
			w.Start = seg.Window.Start
		}
		if i == 0 || seg.Window.End > w.End {
			w.End = seg.Window.End
		}
	}
	return w
}

// Features computes the scene's feature vector over its feature segments,
// each contributing one window.
func (s *Scene) Features(req features.Request) ([]string, []features.Value) {
	segs := s.FeatureSegments()
	windows := make([]features.Window, len(segs))
	for i, seg := range segs {
		windows[i] = seg.featureWindow()
	}
	return features.Compute(req, features.Input{
		Windows:       windows,
		AOIs:          s.AOIs,
		RestPupilSize: s.RestPupilSize,
	})
}
