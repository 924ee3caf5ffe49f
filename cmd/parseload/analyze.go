package main

import (
	"github.com/spf13/cobra"

	"github.com/gyeh/parseload/internal/loadtest"
	"github.com/gyeh/parseload/internal/logging"
	"github.com/gyeh/parseload/internal/model"
)

var fromParquet string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Recompute statistics over the responses already in --output-dir",
	Long:  "Recompute statistics over the responses already in --output-dir, or with\n--from-parquet over the per-document export of an earlier run.",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	addOutputFlags(f)
	f.StringVar(&fromParquet, "from-parquet", "", "Recompute from a Parquet export written by --report-parquet")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	var (
		summary *model.Summary
		err     error
	)
	if fromParquet != "" {
		summary, err = loadtest.AnalyzeParquet(fromParquet, log)
	} else {
		summary, err = loadtest.Analyze(&cfg, log)
	}
	if err != nil {
		exitOnError(log, err, "analyze failed")
	}
	emitReport(log, summary)
	return nil
}
