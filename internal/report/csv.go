package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func writeAll(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}

// WriteSweepCSV writes sweep rows in long format.
func WriteSweepCSV(w io.Writer, rows []SweepRow) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.ParticipantID, r.SceneID, r.SegmentID,
			r.Method.String(), ftoa(r.Threshold), ftoa(r.Score), strconv.FormatBool(r.Valid),
		}
	}
	return writeAll(w, []string{"part_id", "sc_id", "seg_id", "method", "threshold", "score", "valid"}, out)
}

// WriteDiscardedCSV writes the per-participant discard summary.
func WriteDiscardedCSV(w io.Writer, rows []DiscardRow) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.ParticipantID,
			strconv.Itoa(r.Segments), strconv.Itoa(r.InvalidSegments), ftoa(r.PercentSegments()),
			strconv.Itoa(r.Samples), strconv.Itoa(r.DiscardedSamples), ftoa(r.PercentSamples()),
		}
	}
	return writeAll(w, []string{
		"part_id", "segments", "invalid_segments", "percent_segments_discarded",
		"samples", "discarded_samples", "percent_samples_discarded",
	}, out)
}

// WriteParticipantCSV writes the participant validity summary.
func WriteParticipantCSV(w io.Writer, rows []ParticipantRow) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			r.ParticipantID, strconv.FormatBool(r.Valid),
			strconv.Itoa(r.Scenes), strconv.Itoa(r.ValidScenes), strconv.Itoa(r.SplitSegments),
			strconv.Itoa(r.DefinedSamples), strconv.Itoa(r.RestoredSamples), strconv.Itoa(r.LostSamples),
		}
	}
	return writeAll(w, []string{
		"part_id", "valid", "scenes", "valid_scenes", "split_segments",
		"defined_samples", "restored_samples", "lost_samples",
	}, out)
}
