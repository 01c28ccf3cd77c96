// Package report summarises segment validity across a cohort: threshold
// sweeps, discard rates and samples restored by auto-partitioning. It only
// reads scene and segment state.
package report

import (
	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/participant"
	"github.com/m-wu/EMDAT/internal/quality"
)

// Sweep lists the thresholds each segment is re-assessed under.
type Sweep struct {
	InvalidProportions []float64
	GapThresholdsMs    []int64
	// MaxInvalidProportion is the limit used by the gap-threshold method.
	MaxInvalidProportion float64
}

// SweepFromConfig reads sweep thresholds from cfg.
func SweepFromConfig(cfg *config.AnalysisConfig) Sweep {
	return Sweep{
		InvalidProportions:   cfg.GetSweepInvalidProportions(),
		GapThresholdsMs:      cfg.GetSweepGapThresholdsMs(),
		MaxInvalidProportion: cfg.GetMaxInvalidProportion(),
	}
}

// criteria expands the sweep into every (method, threshold) pair, in
// method order.
func (s Sweep) criteria() []quality.Criteria {
	var out []quality.Criteria
	for _, p := range s.InvalidProportions {
		out = append(out, quality.Criteria{Method: quality.PercentInvalid, MaxInvalidProportion: p})
	}
	for _, g := range s.GapThresholdsMs {
		out = append(out, quality.Criteria{Method: quality.LongestGap, MaxGapMs: g})
	}
	for _, g := range s.GapThresholdsMs {
		out = append(out, quality.Criteria{Method: quality.GapThreshold, GapThresholdMs: g, MaxInvalidProportion: s.MaxInvalidProportion})
	}
	return out
}

// SweepRow is the assessment of one segment under one threshold.
type SweepRow struct {
	ParticipantID string
	SceneID       string
	SegmentID     string
	Method        quality.Method
	// Threshold is a proportion for percent-invalid and a gap length in ms
	// for the gap methods.
	Threshold float64
	Score     float64
	Valid     bool
}

// SegmentValiditySweep re-assesses every segment of every participant
// under each threshold of the sweep.
func SegmentValiditySweep(ps []*participant.Participant, s Sweep) []SweepRow {
	crit := s.criteria()
	var rows []SweepRow
	for _, p := range ps {
		for _, seg := range p.Segments {
			for _, c := range crit {
				a := quality.Assess(seg.Samples, seg.Window, c)
				threshold := c.Threshold()
				if c.Method == quality.GapThreshold {
					threshold = float64(c.GapThresholdMs)
				}
				rows = append(rows, SweepRow{
					ParticipantID: p.ID,
					SceneID:       seg.SceneID,
					SegmentID:     seg.ID,
					Method:        c.Method,
					Threshold:     threshold,
					Score:         a.Score,
					Valid:         a.Valid,
				})
			}
		}
	}
	return rows
}

// DiscardRow is the share of one participant's data dropped as invalid.
type DiscardRow struct {
	ParticipantID    string
	Segments         int
	InvalidSegments  int
	Samples          int
	DiscardedSamples int
}

// PercentSegments returns the share of segments discarded, in percent.
func (r DiscardRow) PercentSegments() float64 {
	return percent(r.InvalidSegments, r.Segments)
}

// PercentSamples returns the share of samples discarded, in percent.
func (r DiscardRow) PercentSamples() float64 {
	return percent(r.DiscardedSamples, r.Samples)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}

// PercentDiscarded summarises invalid segments per participant.
func PercentDiscarded(ps []*participant.Participant) []DiscardRow {
	rows := make([]DiscardRow, 0, len(ps))
	for _, p := range ps {
		r := DiscardRow{ParticipantID: p.ID, Segments: len(p.Segments)}
		for _, seg := range p.Segments {
			r.Samples += seg.Quality.Samples
			if !seg.IsValid() {
				r.InvalidSegments++
				r.DiscardedSamples += seg.Quality.Samples
			}
		}
		rows = append(rows, r)
	}
	return rows
}

// ParticipantRow is the participant-level validity summary.
type ParticipantRow struct {
	ParticipantID string
	Valid         bool
	Scenes        int
	ValidScenes   int
	// SplitSegments counts defined segments replaced by auto-partitioning.
	SplitSegments int
	// DefinedSamples is the sample count of all defined segments.
	DefinedSamples int
	// RestoredSamples were in invalid defined segments but end up in valid
	// children after splitting.
	RestoredSamples int
	// LostSamples are in no valid segment.
	LostSamples int
}

// ParticipantValidity summarises each participant, with restored-sample
// accounting for auto-partitioned segments.
func ParticipantValidity(ps []*participant.Participant) []ParticipantRow {
	rows := make([]ParticipantRow, 0, len(ps))
	for _, p := range ps {
		r := ParticipantRow{ParticipantID: p.ID, Valid: p.IsValid(), Scenes: len(p.Scenes)}
		validSamples := 0
		for _, sc := range p.Scenes {
			if sc.IsValid() {
				r.ValidScenes++
			}
			for _, seg := range sc.Segments {
				if seg.ParentID == "" {
					r.DefinedSamples += seg.Quality.Samples
				}
				if seg.IsValid() {
					validSamples += seg.Quality.Samples
				}
			}
			for _, split := range sc.Splits {
				r.SplitSegments++
				r.DefinedSamples += split.Original.Quality.Samples
				r.RestoredSamples += split.RestoredSamples()
			}
		}
		r.LostSamples = r.DefinedSamples - validSamples
		rows = append(rows, r)
	}
	return rows
}
