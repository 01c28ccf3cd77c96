// Package gaze defines the immutable raw records produced by eye tracker
// readers: gaze samples, detected fixations and external log events.
//
// Nullable measurements are pointers. A nil X or Y on a Datapoint marks a
// tracking-loss sample.
package gaze

import "github.com/m-wu/EMDAT/internal/geom"

// Validity codes follow the common eye tracker convention where 0 means
// both eyes were found and higher codes mean progressively less certain
// data. Samples at or above ValidityInvalid are treated as missing.
const (
	ValidityBoth    = 0
	ValidityPartial = 1
	ValidityInvalid = 2
	ValidityLost    = 4
)

// Datapoint is one gaze sample.
type Datapoint struct {
	Timestamp     int64
	X             *float64
	Y             *float64
	PupilLeft     *float64
	PupilRight    *float64
	DistanceLeft  *float64
	DistanceRight *float64
	Validity      int
}

// IsValid reports whether the sample carries a usable gaze position.
func (d Datapoint) IsValid() bool {
	return d.X != nil && d.Y != nil && d.Validity < ValidityInvalid
}

// PupilSize combines the two eyes using PupilSize.
func (d Datapoint) PupilSize() float64 {
	return PupilSize(d.PupilLeft, d.PupilRight)
}

// Distance combines the two eye-to-screen distances using Distance.
func (d Datapoint) Distance() float64 {
	return Distance(d.DistanceLeft, d.DistanceRight)
}

// Fixation is one detected fixation. X and Y are the centroid.
type Fixation struct {
	Timestamp int64
	Duration  int64
	X         float64
	Y         float64
	PupilSize *float64
	Validity  int
}

// End returns the timestamp at which the fixation finished.
func (f Fixation) End() int64 {
	return f.Timestamp + f.Duration
}

// Point returns the fixation centroid.
func (f Fixation) Point() geom.Point {
	return geom.Point{X: f.X, Y: f.Y}
}

// Event labels recognised by the built-in event features.
const (
	EventLeftClick   = "LeftMouseClick"
	EventRightClick  = "RightMouseClick"
	EventDoubleClick = "DoubleClick"
	EventKeyPress    = "KeyPress"
)

// Event is one entry from an external experiment log.
type Event struct {
	Timestamp int64
	Label     string
	Data      string
}

// Float returns a pointer to v. Readers and tests use it to fill nullable
// fields.
func Float(v float64) *float64 { return &v }
