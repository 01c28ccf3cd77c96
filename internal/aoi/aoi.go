// Package aoi models Areas of Interest: named screen polygons that may be
// active only during some time windows of a recording.
package aoi

import (
	"errors"
	"fmt"

	"github.com/m-wu/EMDAT/internal/geom"
)

// ErrDegeneratePolygon is returned for polygons with fewer than three vertices.
var ErrDegeneratePolygon = errors.New("AOI polygon needs at least 3 vertices")

// AOI is a polygonal region. An empty Intervals list means the AOI is
// active for the whole recording (a global AOI). AOIs are shared read-only
// by every segment of a scene and must not be modified after construction.
type AOI struct {
	Name      string
	Polygon   geom.Polygon
	Intervals []geom.Interval
}

// New validates and builds an AOI.
func New(name string, polygon geom.Polygon, intervals []geom.Interval) (*AOI, error) {
	if name == "" {
		return nil, fmt.Errorf("AOI has no name")
	}
	if len(polygon) < 3 {
		return nil, fmt.Errorf("AOI %q: %w (got %d)", name, ErrDegeneratePolygon, len(polygon))
	}
	if err := geom.CheckDisjoint(intervals); err != nil {
		return nil, fmt.Errorf("AOI %q active intervals: %w", name, err)
	}
	a := &AOI{
		Name:    name,
		Polygon: append(geom.Polygon(nil), polygon...),
	}
	if len(intervals) > 0 {
		a.Intervals = append([]geom.Interval(nil), intervals...)
	}
	return a, nil
}

// IsGlobal reports whether the AOI is always active.
func (a *AOI) IsGlobal() bool {
	return len(a.Intervals) == 0
}

// IsActive reports whether the AOI is active at time t.
func (a *AOI) IsActive(t int64) bool {
	if a.IsGlobal() {
		return true
	}
	for _, iv := range a.Intervals {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

// Contains reports whether the gaze position (x, y) at time t falls in the
// AOI. Tracking-loss samples (nil x or y) are never inside.
func (a *AOI) Contains(x, y *float64, t int64) bool {
	if x == nil || y == nil {
		return false
	}
	return a.ContainsPoint(geom.Point{X: *x, Y: *y}, t)
}

// ContainsPoint is Contains for a known position.
func (a *AOI) ContainsPoint(p geom.Point, t int64) bool {
	if !a.IsActive(t) {
		return false
	}
	return a.Polygon.Contains(p.X, p.Y)
}

// Names returns the AOI names in list order.
func Names(aois []*AOI) []string {
	out := make([]string, len(aois))
	for i, a := range aois {
		out[i] = a.Name
	}
	return out
}
