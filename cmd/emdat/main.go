// Command emdat computes eye movement features for a cohort of
// participants and writes feature tables, validity reports and optional
// pupil plots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/m-wu/EMDAT/internal/monitoring"
	"github.com/m-wu/EMDAT/internal/version"
)

func main() {
	var opts options
	flag.StringVar(&opts.ConfigPath, "config", "", "Analysis config file (.json, .yaml); defaults apply when empty")
	flag.StringVar(&opts.CohortPath, "cohort", "", "Cohort manifest listing participants and their files")
	flag.StringVar(&opts.FeaturesOut, "out", "features.tsv", "Feature table output path")
	flag.StringVar(&opts.SweepOut, "validity-out", "", "Segment validity sweep CSV (skipped when empty)")
	flag.StringVar(&opts.DiscardOut, "discard-out", "", "Per-participant discarded data CSV (skipped when empty)")
	flag.StringVar(&opts.ParticipantsOut, "participants-out", "", "Participant validity CSV (skipped when empty)")
	flag.StringVar(&opts.ChartOut, "chart", "", "Validity chart HTML output (skipped when empty)")
	flag.StringVar(&opts.PlotDir, "plots", "", "Directory for per-participant pupil traces (skipped when empty)")
	flag.StringVar(&opts.DBPath, "db", "", "SQLite database to record the run in (skipped when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	listRuns := flag.Bool("list-runs", false, "List the runs recorded in -db and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("emdat %s\n", version.String())
		return
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	installLogger(logger)

	if *listRuns {
		if err := printRuns(os.Stdout, opts.DBPath); err != nil {
			logger.Fatal().Err(err).Msg("list runs failed")
		}
		return
	}

	if opts.CohortPath == "" {
		logger.Fatal().Msg("-cohort is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := run(ctx, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("analysis failed")
	}
	logger.Info().
		Int("participants", summary.Participants).
		Int("valid", summary.ValidParticipants).
		Int("rows", summary.Rows).
		Str("run_id", summary.RunID).
		Msg("analysis complete")
}

// installLogger routes the library diagnostic hooks into l.
func installLogger(l zerolog.Logger) {
	monitoring.SetLogger(func(format string, v ...interface{}) {
		l.Info().Msgf(format, v...)
	})
	monitoring.SetDebugLogger(func(format string, v ...interface{}) {
		l.Debug().Msgf(format, v...)
	})
}
