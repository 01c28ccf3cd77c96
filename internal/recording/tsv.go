package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/gaze"
)

// TSVReader reads tab-separated exports with a header row. Columns are
// matched by name, case-insensitively, so their order does not matter:
//
//	samples:   timestamp x y [pupil_left pupil_right distance_left distance_right validity]
//	fixations: timestamp duration x y [pupil_size validity]
//	events:    timestamp label [data]
//
// An empty cell is a missing measurement.
type TSVReader struct {
	FS fsutil.FileSystem
}

func (r *TSVReader) ReadAllData(path string) ([]gaze.Datapoint, error) {
	var out []gaze.Datapoint
	err := r.scan(path, []string{"timestamp", "x", "y"}, func(row tsvRow) error {
		ts, err := row.i64("timestamp")
		if err != nil {
			return err
		}
		d := gaze.Datapoint{Timestamp: ts}
		for _, f := range []struct {
			col string
			dst **float64
		}{
			{"x", &d.X}, {"y", &d.Y},
			{"pupil_left", &d.PupilLeft}, {"pupil_right", &d.PupilRight},
			{"distance_left", &d.DistanceLeft}, {"distance_right", &d.DistanceRight},
		} {
			if *f.dst, err = row.optFloat(f.col); err != nil {
				return err
			}
		}
		if d.Validity, err = row.optInt("validity"); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	return out, err
}

func (r *TSVReader) ReadFixationData(path string) ([]gaze.Fixation, error) {
	var out []gaze.Fixation
	err := r.scan(path, []string{"timestamp", "duration", "x", "y"}, func(row tsvRow) error {
		var f gaze.Fixation
		var err error
		if f.Timestamp, err = row.i64("timestamp"); err != nil {
			return err
		}
		if f.Duration, err = row.i64("duration"); err != nil {
			return err
		}
		if f.X, err = row.f64("x"); err != nil {
			return err
		}
		if f.Y, err = row.f64("y"); err != nil {
			return err
		}
		if f.PupilSize, err = row.optFloat("pupil_size"); err != nil {
			return err
		}
		if f.Validity, err = row.optInt("validity"); err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	return out, err
}

func (r *TSVReader) ReadEventData(path string) ([]gaze.Event, error) {
	var out []gaze.Event
	err := r.scan(path, []string{"timestamp", "label"}, func(row tsvRow) error {
		ts, err := row.i64("timestamp")
		if err != nil {
			return err
		}
		out = append(out, gaze.Event{Timestamp: ts, Label: row.str("label"), Data: row.str("data")})
		return nil
	})
	return out, err
}

type tsvRow struct {
	cols   map[string]int
	fields []string
}

func (r tsvRow) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r tsvRow) i64(col string) (int64, error) {
	v, err := strconv.ParseInt(r.str(col), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func (r tsvRow) f64(col string) (float64, error) {
	v, err := strconv.ParseFloat(r.str(col), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

func (r tsvRow) optFloat(col string) (*float64, error) {
	if r.str(col) == "" {
		return nil, nil
	}
	v, err := r.f64(col)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r tsvRow) optInt(col string) (int, error) {
	if r.str(col) == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(r.str(col))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return v, nil
}

// scan reads the header, checks required columns and calls fn per row.
func (r *TSVReader) scan(path string, required []string, fn func(tsvRow) error) error {
	f, err := r.FS.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: header: %w", path, err)
	}
	row := tsvRow{cols: make(map[string]int, len(header))}
	for i, h := range header {
		row.cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := row.cols[col]; !ok {
			return fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	line := 1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
		row.fields = fields
		if err := fn(row); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}
