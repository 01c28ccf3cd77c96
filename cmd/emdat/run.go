package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/m-wu/EMDAT/internal/config"
	"github.com/m-wu/EMDAT/internal/fsutil"
	"github.com/m-wu/EMDAT/internal/monitoring"
	"github.com/m-wu/EMDAT/internal/participant"
	"github.com/m-wu/EMDAT/internal/pupilplot"
	"github.com/m-wu/EMDAT/internal/report"
	"github.com/m-wu/EMDAT/internal/store"
	"github.com/m-wu/EMDAT/internal/version"
)

type options struct {
	ConfigPath      string
	CohortPath      string
	FeaturesOut     string
	SweepOut        string
	DiscardOut      string
	ParticipantsOut string
	ChartOut        string
	PlotDir         string
	DBPath          string
}

type summary struct {
	Participants      int
	ValidParticipants int
	Rows              int
	RunID             string
}

func run(ctx context.Context, opts options) (summary, error) {
	var sum summary

	cfg := config.EmptyAnalysisConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadAnalysisConfig(opts.ConfigPath)
		if err != nil {
			return sum, err
		}
		cfg = loaded
	}
	cohort, err := config.LoadCohort(opts.CohortPath)
	if err != nil {
		return sum, err
	}

	fsys := fsutil.OSFileSystem{}
	ps, err := participant.LoadAll(ctx, fsys, cohort, cfg)
	if err != nil {
		return sum, err
	}
	sum.Participants = len(ps)
	for _, p := range ps {
		if p.IsValid() {
			sum.ValidParticipants++
		}
	}

	exportOpts := participant.ExportOptionsFromConfig(cfg)
	var table participant.Table
	if opts.FeaturesOut != "" {
		table, err = participant.WriteFeaturesTSV(fsys, opts.FeaturesOut, ps, exportOpts)
		if err != nil {
			return sum, err
		}
		monitoring.Logf("wrote %d feature rows to %s", len(table.Rows), opts.FeaturesOut)
	} else if table, err = participant.ExportAll(ps, exportOpts); err != nil {
		return sum, err
	}
	sum.Rows = len(table.Rows)

	sweep := report.SegmentValiditySweep(ps, report.SweepFromConfig(cfg))
	discarded := report.PercentDiscarded(ps)

	if opts.SweepOut != "" {
		if err := writeOutput(fsys, opts.SweepOut, func(w io.Writer) error {
			return report.WriteSweepCSV(w, sweep)
		}); err != nil {
			return sum, err
		}
	}
	if opts.DiscardOut != "" {
		if err := writeOutput(fsys, opts.DiscardOut, func(w io.Writer) error {
			return report.WriteDiscardedCSV(w, discarded)
		}); err != nil {
			return sum, err
		}
	}
	if opts.ParticipantsOut != "" {
		if err := writeOutput(fsys, opts.ParticipantsOut, func(w io.Writer) error {
			return report.WriteParticipantCSV(w, report.ParticipantValidity(ps))
		}); err != nil {
			return sum, err
		}
	}
	if opts.ChartOut != "" {
		if err := writeOutput(fsys, opts.ChartOut, func(w io.Writer) error {
			return report.RenderValidityCharts(w, discarded, sweep)
		}); err != nil {
			return sum, err
		}
	}

	if opts.PlotDir != "" {
		for _, p := range ps {
			if err := pupilplot.Save(fsys, opts.PlotDir, p); err != nil {
				return sum, fmt.Errorf("pupil plot for %s: %w", p.ID, err)
			}
		}
	}

	if opts.DBPath != "" {
		runID, err := record(opts.DBPath, cfg, table, sweep)
		if err != nil {
			return sum, err
		}
		sum.RunID = runID
	}
	return sum, nil
}

// record stores the run, its feature table and the validity sweep.
func record(path string, cfg *config.AnalysisConfig, table participant.Table, sweep []report.SweepRow) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	r, err := st.CreateRun(version.String(), cfg)
	if err != nil {
		return "", err
	}
	if err := st.InsertFeatureTable(r.RunID, table); err != nil {
		return "", fmt.Errorf("store features: %w", err)
	}
	if err := st.InsertSegmentValidity(r.RunID, sweep); err != nil {
		return "", fmt.Errorf("store validity: %w", err)
	}
	monitoring.Logf("recorded run %s in %s", r.RunID, path)
	return r.RunID, nil
}

// printRuns lists recorded runs, newest first.
func printRuns(w io.Writer, dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("-db is required")
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tVERSION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.RunID, r.CreatedAt.Format(time.RFC3339), r.Version)
	}
	return tw.Flush()
}

func writeOutput(fsys fsutil.FileSystem, path string, fn func(io.Writer) error) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
