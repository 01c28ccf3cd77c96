package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/m-wu/EMDAT/internal/participant"
	"github.com/m-wu/EMDAT/internal/quality"
	"github.com/m-wu/EMDAT/internal/report"
)

// FeatureValue is one cell of a stored feature table.
type FeatureValue struct {
	Row   int
	Name  string
	Text  string
	Num   float64
	IsNum bool
}

// InsertFeatureTable stores every cell of t in long form. Cells that parse
// as numbers also get a numeric value for querying.
func (s *Store) InsertFeatureTable(runID string, t participant.Table) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			`INSERT INTO feature_values (run_id, row_idx, col_idx, name, value_text, value_num) VALUES (?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for r, row := range t.Rows {
			if len(row) != len(t.Header) {
				return fmt.Errorf("row %d has %d cells, header has %d", r, len(row), len(t.Header))
			}
			for c, cell := range row {
				var num sql.NullFloat64
				if f, err := strconv.ParseFloat(cell, 64); err == nil {
					num = sql.NullFloat64{Float64: f, Valid: true}
				}
				if _, err := stmt.Exec(runID, r, c, t.Header[c], cell, num); err != nil {
					return fmt.Errorf("insert %s row %d: %w", t.Header[c], r, err)
				}
			}
		}
		return nil
	})
}

// FeatureTable rebuilds the table stored for a run.
func (s *Store) FeatureTable(runID string) (participant.Table, error) {
	rows, err := s.db.Query(
		`SELECT row_idx, col_idx, name, value_text FROM feature_values WHERE run_id = ? ORDER BY row_idx, col_idx`,
		runID,
	)
	if err != nil {
		return participant.Table{}, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var t participant.Table
	for rows.Next() {
		var (
			r, c       int
			name, text string
		)
		if err := rows.Scan(&r, &c, &name, &text); err != nil {
			return participant.Table{}, fmt.Errorf("scan feature: %w", err)
		}
		if r == 0 {
			t.Header = append(t.Header, name)
		}
		for len(t.Rows) <= r {
			t.Rows = append(t.Rows, nil)
		}
		t.Rows[r] = append(t.Rows[r], text)
	}
	return t, rows.Err()
}

// FeatureValues returns one column of a run's table in row order.
func (s *Store) FeatureValues(runID, name string) ([]FeatureValue, error) {
	rows, err := s.db.Query(
		`SELECT row_idx, value_text, value_num FROM feature_values WHERE run_id = ? AND name = ? ORDER BY row_idx`,
		runID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("query feature %s: %w", name, err)
	}
	defer rows.Close()

	var out []FeatureValue
	for rows.Next() {
		v := FeatureValue{Name: name}
		var num sql.NullFloat64
		if err := rows.Scan(&v.Row, &v.Text, &num); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		v.Num, v.IsNum = num.Float64, num.Valid
		out = append(out, v)
	}
	return out, rows.Err()
}

// InsertSegmentValidity stores the rows of a validity sweep.
func (s *Store) InsertSegmentValidity(runID string, sweep []report.SweepRow) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(
			`INSERT INTO segment_validity (run_id, participant_id, scene_id, segment_id, method, threshold, score, valid)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range sweep {
			if _, err := stmt.Exec(runID, r.ParticipantID, r.SceneID, r.SegmentID,
				r.Method.String(), r.Threshold, r.Score, r.Valid); err != nil {
				return fmt.Errorf("insert validity for %s/%s: %w", r.ParticipantID, r.SegmentID, err)
			}
		}
		return nil
	})
}

// SegmentValidity returns the sweep rows stored for a run, in insertion order.
func (s *Store) SegmentValidity(runID string) ([]report.SweepRow, error) {
	rows, err := s.db.Query(
		`SELECT participant_id, scene_id, segment_id, method, threshold, score, valid
		 FROM segment_validity WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query validity: %w", err)
	}
	defer rows.Close()

	var out []report.SweepRow
	for rows.Next() {
		var (
			r      report.SweepRow
			method string
		)
		if err := rows.Scan(&r.ParticipantID, &r.SceneID, &r.SegmentID, &method,
			&r.Threshold, &r.Score, &r.Valid); err != nil {
			return nil, fmt.Errorf("scan validity: %w", err)
		}
		m, err := quality.ParseMethod(method)
		if err != nil {
			return nil, err
		}
		r.Method = m
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	return s.retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
