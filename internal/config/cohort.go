package config

import (
	"fmt"
	"path/filepath"
)

// RecordingFiles names the raw streams of one recording session.
type RecordingFiles struct {
	Samples   string `json:"samples" yaml:"samples"`
	Fixations string `json:"fixations" yaml:"fixations"`
	Events    string `json:"events,omitempty" yaml:"events,omitempty"`
	Segments  string `json:"segments" yaml:"segments"`
}

// ParticipantFiles describes one participant in a cohort manifest. AOIs and
// rest pupil sizes are shared by all of the participant's recordings.
type ParticipantFiles struct {
	ID             string           `json:"id" yaml:"id"`
	Recordings     []RecordingFiles `json:"recordings" yaml:"recordings"`
	AOIs           string           `json:"aois,omitempty" yaml:"aois,omitempty"`
	RestPupilSizes string           `json:"rest_pupil_sizes,omitempty" yaml:"rest_pupil_sizes,omitempty"`
}

// Cohort is the list of participants processed in one run.
type Cohort struct {
	Participants []ParticipantFiles `json:"participants" yaml:"participants"`
}

// LoadCohort reads a cohort manifest. Relative paths inside the manifest are
// resolved against the manifest's directory.
func LoadCohort(path string) (*Cohort, error) {
	data, ext, err := readBounded(path)
	if err != nil {
		return nil, err
	}
	var c Cohort
	if err := decode(data, ext, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cohort: %w", err)
	}
	c.resolve(filepath.Dir(filepath.Clean(path)))
	return &c, nil
}

// Validate checks participant ids are present and unique and that every
// recording names its required streams.
func (c *Cohort) Validate() error {
	if len(c.Participants) == 0 {
		return fmt.Errorf("no participants")
	}
	seen := make(map[string]bool, len(c.Participants))
	for i, p := range c.Participants {
		if p.ID == "" {
			return fmt.Errorf("participant %d has no id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate participant id %q", p.ID)
		}
		seen[p.ID] = true
		if len(p.Recordings) == 0 {
			return fmt.Errorf("participant %q has no recordings", p.ID)
		}
		for j, r := range p.Recordings {
			if r.Samples == "" || r.Fixations == "" {
				return fmt.Errorf("participant %q recording %d: samples and fixations are required", p.ID, j)
			}
			if r.Segments == "" {
				return fmt.Errorf("participant %q recording %d: segments file is required", p.ID, j)
			}
		}
	}
	return nil
}

func (c *Cohort) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Participants {
		p := &c.Participants[i]
		p.AOIs = abs(p.AOIs)
		p.RestPupilSizes = abs(p.RestPupilSizes)
		for j := range p.Recordings {
			r := &p.Recordings[j]
			r.Samples = abs(r.Samples)
			r.Fixations = abs(r.Fixations)
			r.Events = abs(r.Events)
			r.Segments = abs(r.Segments)
		}
	}
}
