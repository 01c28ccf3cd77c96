// Package recording loads the raw streams of one session and turns them
// into Scenes.
package recording

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m-wu/EMDAT/internal/aoi"
	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/gaze"
	"github.com/m-wu/EMDAT/internal/monitoring"
	"github.com/m-wu/EMDAT/internal/scene"
)

var (
	// ErrEmptyStream is returned when a required stream has no records.
	ErrEmptyStream = errors.New("stream has no records")
	// ErrSceneSource is returned unless exactly one of a seg file and a
	// scene list is given.
	ErrSceneSource = errors.New("exactly one of a seg file or a scene list is required")
)

// Files names the raw stream files of a session. Events is optional.
type Files struct {
	Samples   string
	Fixations string
	Events    string
}

// Recording holds the full session streams, sorted by timestamp and moved
// into stimulus coordinates. It is read-only after New.
type Recording struct {
	Samples   []gaze.Datapoint
	Fixations []gaze.Fixation
	Events    []gaze.Event

	fs fsutil.FileSystem
}

// New reads the session streams with r. Every stream that is read must
// contain at least one record.
func New(r Reader, fsys fsutil.FileSystem, files Files, offset gaze.Offset) (*Recording, error) {
	samples, err := r.ReadAllData(files.Samples)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("samples file %s: %w", files.Samples, ErrEmptyStream)
	}

	fixations, err := r.ReadFixationData(files.Fixations)
	if err != nil {
		return nil, fmt.Errorf("read fixations: %w", err)
	}
	if len(fixations) == 0 {
		return nil, fmt.Errorf("fixations file %s: %w", files.Fixations, ErrEmptyStream)
	}

	var events []gaze.Event
	if files.Events != "" {
		events, err = r.ReadEventData(files.Events)
		if err != nil {
			return nil, fmt.Errorf("read events: %w", err)
		}
		if len(events) == 0 {
			return nil, fmt.Errorf("events file %s: %w", files.Events, ErrEmptyStream)
		}
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Timestamp < samples[j].Timestamp })
	sort.SliceStable(fixations, func(i, j int) bool { return fixations[i].Timestamp < fixations[j].Timestamp })
	sort.SliceStable(events, func(i, j int) bool { return events[i].Timestamp < events[j].Timestamp })

	rec := &Recording{Samples: samples, Fixations: fixations, Events: events, fs: fsys}
	if !offset.IsZero() {
		rec.Samples = offset.ApplyToSamples(samples)
		rec.Fixations = offset.ApplyToFixations(fixations)
	}
	return rec, nil
}

// Streams returns the session streams for scene construction.
func (r *Recording) Streams() scene.Streams {
	return scene.Streams{Samples: r.Samples, Fixations: r.Fixations, Events: r.Events}
}

// ProcessOptions selects the scene and AOI sources of one Process call.
type ProcessOptions struct {
	// Exactly one of SegFile and Scenes must be set.
	SegFile string
	Scenes  []scene.SceneDef

	// AOIFile takes precedence over AOIs. With neither, no AOIs are used.
	AOIFile string
	AOIs    []*aoi.AOI

	Scene scene.Options
	// Strict returns the first scene construction error instead of
	// skipping the scene.
	Strict bool
}

// SceneOutcome records what happened to one scene definition: a built
// Scene, or the reason it was skipped.
type SceneOutcome struct {
	SceneID string
	Scene   *scene.Scene
	Err     error
}

// Skipped reports whether the scene was dropped.
func (o SceneOutcome) Skipped() bool { return o.Err != nil }

// Result is the output of Process.
type Result struct {
	Scenes []*scene.Scene
	// Segments aggregates the segments of all scenes in scene order.
	Segments []*scene.Segment
	Outcomes []SceneOutcome
}

// Process builds one Scene per scene definition. A scene that fails to
// build is logged and left out of the result unless opts.Strict is set.
func (r *Recording) Process(opts ProcessOptions) (*Result, error) {
	defs, err := r.sceneDefs(opts)
	if err != nil {
		return nil, err
	}
	aois, err := r.aoiList(opts)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	streams := r.Streams()
	for _, def := range defs {
		monitoring.Debugf("preparing scene %s (%d samples in session)", def.ID, len(r.Samples))
		sc, err := scene.New(def, streams, aois, opts.Scene)
		res.Outcomes = append(res.Outcomes, SceneOutcome{SceneID: def.ID, Scene: sc, Err: err})
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("scene %s: %w", def.ID, err)
			}
			monitoring.Logf("scene %s dropped: %v", def.ID, err)
			continue
		}
		res.Scenes = append(res.Scenes, sc)
		res.Segments = append(res.Segments, sc.Segments...)
	}
	return res, nil
}

func (r *Recording) sceneDefs(opts ProcessOptions) ([]scene.SceneDef, error) {
	switch {
	case opts.SegFile != "" && opts.Scenes != nil:
		return nil, fmt.Errorf("both seg file and scene list given: %w", ErrSceneSource)
	case opts.SegFile != "":
		f, err := r.fs.Open(opts.SegFile)
		if err != nil {
			return nil, fmt.Errorf("open seg file: %w", err)
		}
		defer f.Close()
		defs, err := scene.ReadSegs(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.SegFile, err)
		}
		monitoring.Logf("read %d scene(s) from %s", len(defs), opts.SegFile)
		return defs, nil
	case opts.Scenes != nil:
		return opts.Scenes, nil
	}
	return nil, ErrSceneSource
}

func (r *Recording) aoiList(opts ProcessOptions) ([]*aoi.AOI, error) {
	if opts.AOIFile != "" {
		return ReadAOIFile(r.fs, opts.AOIFile)
	}
	if opts.AOIs == nil {
		monitoring.Logf("no AOIs defined")
	}
	return opts.AOIs, nil
}

// ReadAOIFile reads a '.aoi' file through fsys.
func ReadAOIFile(fsys fsutil.FileSystem, path string) ([]*aoi.AOI, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open AOI file: %w", err)
	}
	defer f.Close()
	aois, err := aoi.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("read %d AOI(s) from %s: %s", len(aois), path, strings.Join(aoi.Names(aois), ", "))
	return aois, nil
}
