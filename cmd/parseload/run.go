package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gyeh/parseload/internal/config"
	"github.com/gyeh/parseload/internal/exitcode"
	"github.com/gyeh/parseload/internal/loadtest"
	"github.com/gyeh/parseload/internal/logging"
	"github.com/gyeh/parseload/internal/model"
	"github.com/gyeh/parseload/internal/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Upload every PDF in a directory and report parsing statistics",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.InputDir, "input-dir", "", "Directory of PDF files to upload (required)")
	f.StringVar(&cfg.Endpoint, "endpoint", cfg.Endpoint, "Parse endpoint URL")
	f.IntVar(&cfg.MaxConcurrent, "max-concurrent", cfg.MaxConcurrent, "Maximum number of uploads in flight")
	f.IntVar(&cfg.Limit, "limit", 0, "Upload at most this many files (0 = all)")
	f.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request timeout (0 = none)")
	addOutputFlags(f)
	rootCmd.AddCommand(runCmd)
}

// addOutputFlags registers the flags shared by run and analyze.
func addOutputFlags(f *pflag.FlagSet) {
	f.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Directory where responses are stored")
	f.StringVar(&cfg.ReportFormat, "report-format", cfg.ReportFormat, "Summary format: text or json")
	f.StringVar(&cfg.ReportParquet, "report-parquet", "", "Also export per-document statistics to this Parquet file")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := loadtest.Run(ctx, &cfg, log)
	if err != nil {
		exitOnError(log, err, "load test failed")
	}

	emitReport(log, summary)
	if summary.FilesFailed > 0 {
		log.Warn().Int("failed", summary.FilesFailed).Msg("some uploads failed")
	}
	if code := summaryExitCode(summary); code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

// summaryExitCode maps a completed run to its exit code. Empty results are
// not failures.
func summaryExitCode(summary *model.Summary) int {
	if summary.FilesFailed > 0 {
		return exitcode.PartialSuccess
	}
	return exitcode.Success
}

// errorExitCode maps a fatal error to its exit code.
func errorExitCode(err error) int {
	var ce *config.ConfigurationError
	if errors.As(err, &ce) {
		return exitcode.ConfigError
	}
	return exitcode.OutputError
}

// exitOnError logs err and exits with the code matching its kind.
func exitOnError(log zerolog.Logger, err error, msg string) {
	var ce *config.ConfigurationError
	var pe *loadtest.PhaseError
	switch {
	case errors.As(err, &ce):
		log.Error().Err(ce.Err).Str("field", ce.Field).Msg("config validation failed")
	case errors.As(err, &pe):
		log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg(msg)
	default:
		log.Error().Err(err).Msg(msg)
	}
	os.Exit(errorExitCode(err))
}

// emitReport prints the summary and writes the optional Parquet export.
func emitReport(log zerolog.Logger, summary *model.Summary) {
	if err := loadtest.EmptyResult(summary); err != nil {
		log.Warn().Err(err).Str("status", summary.Status).Msg("empty result")
	}
	if err := report.Write(os.Stdout, summary, cfg.ReportFormat); err != nil {
		log.Error().Err(err).Msg("failed to write report")
		os.Exit(exitcode.OutputError)
	}
	if cfg.ReportParquet == "" || summary.Report == nil {
		return
	}
	if err := report.WriteParquet(cfg.ReportParquet, summary.Report.Documents); err != nil {
		log.Error().Err(err).Str("path", cfg.ReportParquet).Msg("failed to export parquet report")
		os.Exit(exitcode.OutputError)
	}
	log.Info().
		Str("path", cfg.ReportParquet).
		Int("documents", len(summary.Report.Documents)).
		Msg("parquet report written")
}
