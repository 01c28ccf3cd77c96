package participant

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/features"
	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/monitoring"
)

// ErrHeaderMismatch is returned when participants export different columns.
var ErrHeaderMismatch = errors.New("feature header differs between participants")

// Id column names.
const (
	ColParticipant = "Part_id"
	ColScene       = "Sc_id"
	ColSegment     = "Seg_id"
)

// ExportOptions controls feature export.
type ExportOptions struct {
	Request features.Request
	// IDPrefix adds a leading participant id column.
	IDPrefix bool
	// RequireValid drops rows of invalid scenes or segments.
	RequireValid bool
	// Mode is config.ExportScenes or config.ExportSegments.
	Mode string
}

// ExportOptionsFromConfig derives export options from cfg.
func ExportOptionsFromConfig(cfg *config.AnalysisConfig) ExportOptions {
	return ExportOptions{
		Request: features.Request{
			Features:    cfg.Features,
			AOIFeatures: cfg.AOIFeatures,
			AOILabels:   cfg.AOIFeatureLabels,
		},
		IDPrefix:     cfg.GetIDPrefix(),
		RequireValid: cfg.GetRequireValidSegments(),
		Mode:         cfg.GetExportMode(),
	}
}

// Table is a feature table with stringified values.
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteTSV writes the header row followed by one row per unit.
func (t Table) WriteTSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if t.Header != nil {
		if err := cw.Write(t.Header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write feature rows: %w", err)
	}
	return nil
}

// ExportFeatures builds the participant's feature table. The header is
// taken from the first exported unit; a table without rows has no header.
func (p *Participant) ExportFeatures(opts ExportOptions) Table {
	var t Table
	idCols := []string{}
	if opts.IDPrefix {
		idCols = append(idCols, ColParticipant)
	}
	idCols = append(idCols, ColScene)

	add := func(ids []string, names []string, values []features.Value) {
		if t.Header == nil {
			t.Header = append(slices.Clone(idCols), names...)
		}
		row := make([]string, 0, len(ids)+len(values))
		if opts.IDPrefix {
			row = append(row, p.ID)
		}
		row = append(row, ids...)
		for _, v := range values {
			row = append(row, v.String())
		}
		t.Rows = append(t.Rows, row)
	}

	if opts.Mode == config.ExportSegments {
		idCols = append(idCols, ColSegment)
		for _, seg := range p.Segments {
			if opts.RequireValid && !seg.IsValid() {
				monitoring.Logf("participant %s: segment %s dropped because of require_valid", p.ID, seg.ID)
				continue
			}
			names, values := seg.Features(opts.Request)
			add([]string{seg.SceneID, seg.ID}, names, values)
		}
		return t
	}

	for _, sc := range p.Scenes {
		if opts.RequireValid && !sc.IsValid() {
			monitoring.Logf("participant %s: scene %s dropped because of require_valid", p.ID, sc.ID)
			continue
		}
		names, values := sc.Features(opts.Request)
		add([]string{sc.ID}, names, values)
	}
	return t
}

// WriteTSV writes the participant's feature table.
func (p *Participant) WriteTSV(w io.Writer, opts ExportOptions) error {
	return p.ExportFeatures(opts).WriteTSV(w)
}

// ExportAll concatenates the tables of all valid participants under one
// header, taken from the first participant with rows. Invalid participants
// are logged and skipped.
func ExportAll(participants []*Participant, opts ExportOptions) (Table, error) {
	var all Table
	for _, p := range participants {
		if !p.IsValid() {
			monitoring.Logf("participant %s is not valid; skipped", p.ID)
			continue
		}
		t := p.ExportFeatures(opts)
		if len(t.Rows) == 0 {
			continue
		}
		if all.Header == nil {
			all.Header = t.Header
		} else if !slices.Equal(all.Header, t.Header) {
			return Table{}, fmt.Errorf("participant %s: %w", p.ID, ErrHeaderMismatch)
		}
		all.Rows = append(all.Rows, t.Rows...)
	}
	return all, nil
}

// WriteFeaturesTSV exports all participants to a TSV file and returns the
// table that was written.
func WriteFeaturesTSV(fsys fsutil.FileSystem, path string, participants []*Participant, opts ExportOptions) (Table, error) {
	t, err := ExportAll(participants, opts)
	if err != nil {
		return Table{}, err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return Table{}, fmt.Errorf("create %s: %w", path, err)
	}
	if err := t.WriteTSV(f); err != nil {
		f.Close()
		return Table{}, fmt.Errorf("write %s: %w", path, err)
	}
	return t, f.Close()
}
