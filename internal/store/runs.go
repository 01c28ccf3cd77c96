package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one invocation of the analysis pipeline.
type Run struct {
	RunID      string
	Version    string
	ConfigJSON string
	CreatedAt  time.Time
}

// CreateRun records a new run. cfg is stored as JSON when non-nil.
func (s *Store) CreateRun(version string, cfg interface{}) (*Run, error) {
	run := &Run{
		RunID:     uuid.New().String(),
		Version:   version,
		CreatedAt: s.clock.Now(),
	}
	var cfgJSON sql.NullString
	if cfg != nil {
		b, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshal run config: %w", err)
		}
		run.ConfigJSON = string(b)
		cfgJSON = sql.NullString{String: run.ConfigJSON, Valid: true}
	}

	err := s.retryOnBusy(func() error {
		_, err := s.db.Exec(
			`INSERT INTO analysis_runs (run_id, version, config_json, created_at) VALUES (?, ?, ?, ?)`,
			run.RunID, run.Version, cfgJSON, run.CreatedAt.UnixNano(),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// GetRun returns the run with the given id.
func (s *Store) GetRun(runID string) (*Run, error) {
	var (
		run     Run
		cfgJSON sql.NullString
		created int64
	)
	err := s.db.QueryRow(
		`SELECT run_id, version, config_json, created_at FROM analysis_runs WHERE run_id = ?`, runID,
	).Scan(&run.RunID, &run.Version, &cfgJSON, &created)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	run.ConfigJSON = cfgJSON.String
	run.CreatedAt = time.Unix(0, created)
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT run_id, version, config_json, created_at FROM analysis_runs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			cfgJSON sql.NullString
			created int64
		)
		if err := rows.Scan(&run.RunID, &run.Version, &cfgJSON, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.ConfigJSON = cfgJSON.String
		run.CreatedAt = time.Unix(0, created)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and everything stored under it.
func (s *Store) DeleteRun(runID string) error {
	return s.retryOnBusy(func() error {
		res, err := s.db.Exec(`DELETE FROM analysis_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return nil
	})
}
