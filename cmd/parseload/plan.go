package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/parseload/internal/exitcode"
	"github.com/gyeh/parseload/internal/loadtest"
	"github.com/gyeh/parseload/internal/logging"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run: list the files a run would upload (no network)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.InputDir, "input-dir", "", "Directory of PDF files (required)")
	f.IntVar(&cfg.Limit, "limit", 0, "Upload at most this many files (0 = all)")
	f.BoolVar(&planHash, "hash", false, "Print the SHA-256 of every file")
	rootCmd.AddCommand(planCmd)
}

var planHash bool

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		exitOnError(log, err, "plan failed")
	}

	files, err := loadtest.Discover(cfg.InputDir, cfg.Limit)
	if err != nil {
		exitOnError(log, err, "plan failed")
	}

	fmt.Println("=== parseload plan ===")
	fmt.Printf("Input dir:      %s\n", cfg.InputDir)
	fmt.Printf("Endpoint:       %s\n", cfg.Endpoint)
	fmt.Printf("Max concurrent: %d\n", cfg.MaxConcurrent)
	fmt.Printf("Files:          %d\n", len(files))
	fmt.Println()

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.Size
		if !planHash {
			fmt.Printf("  %-40s %12d bytes\n", f.Name, f.Size)
			continue
		}
		sha, err := loadtest.FileHash(f.Path)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name).Msg("failed to hash file")
			os.Exit(exitcode.OutputError)
		}
		fmt.Printf("  %-40s %12d bytes  %s\n", f.Name, f.Size, sha)
	}
	fmt.Printf("\nTotal upload size: %d bytes\n", totalBytes)
	return nil
}
