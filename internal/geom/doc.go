// Package geom holds the small amount of planar and temporal geometry the
// analysis pipeline needs: polygon containment for areas of interest,
// half-open time intervals, and detection of invalid-sample gaps over a
// sorted timestamp sequence.
//
// Timestamps are integer milliseconds on the recording's own time base.
package geom
