// Package participant aggregates the scenes of one participant across
// recordings and exports their features as tables.
package participant

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/quality"
	"github.com/m-wu/EMDAT/internal/recording"
	"github.com/m-wu/EMDAT/internal/scene"
)

// Participant owns the scenes and segments produced from one person's
// recordings.
type Participant struct {
	ID       string
	Scenes   []*scene.Scene
	Segments []*scene.Segment
	Outcomes []recording.SceneOutcome
	// Options are the construction options the scenes were built with.
	Options scene.Options
}

// New aggregates processed recordings under one participant id.
func New(id string, opts scene.Options, results ...*recording.Result) *Participant {
	p := &Participant{ID: id, Options: opts}
	for _, r := range results {
		p.Scenes = append(p.Scenes, r.Scenes...)
		p.Segments = append(p.Segments, r.Segments...)
		p.Outcomes = append(p.Outcomes, r.Outcomes...)
	}
	return p
}

// IsValid reports whether the participant kept at least one valid scene.
func (p *Participant) IsValid() bool {
	for _, sc := range p.Scenes {
		if sc.IsValid() {
			return true
		}
	}
	return false
}

// ValidSegments returns the ids of valid segments.
func (p *Participant) ValidSegments() []string {
	var ids []string
	for _, s := range p.Segments {
		if s.IsValid() {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// InvalidSegments returns the ids of invalid segments.
func (p *Participant) InvalidSegments() []string {
	var ids []string
	for _, s := range p.Segments {
		if !s.IsValid() {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// SceneOptions derives scene construction options from cfg.
func SceneOptions(cfg *config.AnalysisConfig) (scene.Options, error) {
	criteria, err := quality.CriteriaFromConfig(cfg)
	if err != nil {
		return scene.Options{}, err
	}
	prune, _ := cfg.GetPruneLengthMs()
	return scene.Options{
		PruneLength:   prune,
		RequireValid:  cfg.GetRequireValidSegments(),
		AutoPartition: cfg.GetAutoPartition(),
		Criteria:      criteria,
	}, nil
}

// Load reads and processes every recording of one participant. AOIs and
// rest pupil sizes are read once and shared by all recordings.
func Load(fsys fsutil.FileSystem, pf config.ParticipantFiles, cfg *config.AnalysisConfig) (*Participant, error) {
	reader, err := recording.NewReader(cfg.GetReader(), fsys)
	if err != nil {
		return nil, err
	}
	opts, err := SceneOptions(cfg)
	if err != nil {
		return nil, err
	}

	var aois []*aoi.AOI
	if pf.AOIs != "" {
		if aois, err = recording.ReadAOIFile(fsys, pf.AOIs); err != nil {
			return nil, fmt.Errorf("participant %s: %w", pf.ID, err)
		}
	}
	if pf.RestPupilSizes != "" {
		if opts.RestPupilSizes, err = recording.ReadRestPupilSizes(fsys, pf.RestPupilSizes); err != nil {
			return nil, fmt.Errorf("participant %s: %w", pf.ID, err)
		}
	}

	x, y := cfg.GetMediaOffset()
	offset := gaze.Offset{X: x, Y: y}

	results := make([]*recording.Result, 0, len(pf.Recordings))
	for i, rf := range pf.Recordings {
		rec, err := recording.New(reader, fsys, recording.Files{
			Samples:   rf.Samples,
			Fixations: rf.Fixations,
			Events:    rf.Events,
		}, offset)
		if err != nil {
			return nil, fmt.Errorf("participant %s recording %d: %w", pf.ID, i, err)
		}
		res, err := rec.Process(recording.ProcessOptions{
			SegFile: rf.Segments,
			AOIs:    aois,
			Scene:   opts,
			Strict:  cfg.GetStrict(),
		})
		if err != nil {
			return nil, fmt.Errorf("participant %s recording %d: %w", pf.ID, i, err)
		}
		results = append(results, res)
	}
	return New(pf.ID, opts, results...), nil
}

// LoadAll loads every participant of the cohort, up to cfg workers at a
// time. The result keeps cohort order. The first error cancels the rest.
func LoadAll(ctx context.Context, fsys fsutil.FileSystem, cohort *config.Cohort, cfg *config.AnalysisConfig) ([]*Participant, error) {
	out := make([]*Participant, len(cohort.Participants))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.GetWorkers())
	for i, pf := range cohort.Participants {
		i, pf := i, pf
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := Load(fsys, pf, cfg)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
