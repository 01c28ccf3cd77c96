package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCohort(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cohort.yaml", `
participants:
  - id: "61"
    aois: study.aoi
    recordings:
      - samples: p61/all.tsv
        fixations: p61/fix.tsv
        events: p61/events.tsv
        segments: p61/p61.seg
  - id: "62"
    recordings:
      - samples: /data/p62/all.tsv
        fixations: /data/p62/fix.tsv
        segments: /data/p62/p62.seg
`)

	c, err := LoadCohort(path)
	require.NoError(t, err)
	require.Len(t, c.Participants, 2)

	p := c.Participants[0]
	assert.Equal(t, "61", p.ID)
	assert.Equal(t, filepath.Join(dir, "study.aoi"), p.AOIs)
	assert.Equal(t, filepath.Join(dir, "p61", "all.tsv"), p.Recordings[0].Samples)
	assert.Equal(t, filepath.Join(dir, "p61", "p61.seg"), p.Recordings[0].Segments)
	assert.Empty(t, p.RestPupilSizes)

	q := c.Participants[1]
	assert.Equal(t, "/data/p62/all.tsv", q.Recordings[0].Samples, "absolute paths are untouched")
	assert.Empty(t, q.Recordings[0].Events)
}

func TestCohortValidate(t *testing.T) {
	rec := RecordingFiles{Samples: "a", Fixations: "f", Segments: "s"}

	tests := []struct {
		name   string
		cohort Cohort
		errMsg string
	}{
		{"empty", Cohort{}, "no participants"},
		{"missing id", Cohort{Participants: []ParticipantFiles{{Recordings: []RecordingFiles{rec}}}}, "no id"},
		{"duplicate", Cohort{Participants: []ParticipantFiles{
			{ID: "a", Recordings: []RecordingFiles{rec}},
			{ID: "a", Recordings: []RecordingFiles{rec}},
		}}, "duplicate"},
		{"no recordings", Cohort{Participants: []ParticipantFiles{{ID: "a"}}}, "no recordings"},
		{"missing fixations", Cohort{Participants: []ParticipantFiles{
			{ID: "a", Recordings: []RecordingFiles{{Samples: "a", Segments: "s"}}},
		}}, "fixations"},
		{"missing segments", Cohort{Participants: []ParticipantFiles{
			{ID: "a", Recordings: []RecordingFiles{{Samples: "a", Fixations: "f"}}},
		}}, "segments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cohort.Validate(), tt.errMsg)
		})
	}
}
