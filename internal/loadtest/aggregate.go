package loadtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"github.com/gyeh/parseload/internal/model"
)

// resultSuffix selects the result files considered by Aggregate.
const resultSuffix = InputExt + ResultExt

// Aggregate scans every *.pdf.json file in outputDir, including results left
// by earlier runs, and folds the valid successful ones into AggregateStats.
// A file that cannot be read or parsed is logged and skipped. A missing
// directory yields empty stats.
func Aggregate(outputDir string, log zerolog.Logger) (*model.AggregateStats, error) {
	start := time.Now()
	agg := &model.AggregateStats{}

	entries, err := os.ReadDir(outputDir)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("output_dir", outputDir).Msg("output dir does not exist")
		return agg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list output dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), resultSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}

	for _, name := range names {
		doc, err := readResult(filepath.Join(outputDir, name))
		if err != nil {
			agg.Skipped++
			level := log.Warn
			if errors.Is(err, model.ErrNotSuccessful) {
				level = log.Debug
			}
			level().Err(err).Str("file", name).Msg("skipping result")
			continue
		}
		agg.Add(model.NewDocumentStats(strings.TrimSuffix(name, ResultExt), doc))
	}

	log.Info().
		Int("documents", agg.TotalDocuments).
		Int("skipped", agg.Skipped).
		Dur("duration", time.Since(start)).
		Msg("aggregation complete")

	return agg, nil
}

func readResult(path string) (*model.ParsedDocumentResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result: %w", err)
	}
	var r model.ParsedDocumentResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Derive computes the read-only Report from agg. dispatch is the wall clock of
// the dispatch phase; zero leaves PagesPerSecond at 0.
func Derive(agg *model.AggregateStats, dispatch time.Duration) (*model.Report, error) {
	if agg.TotalDocuments == 0 {
		return nil, ErrNoValidDocuments
	}

	r := &model.Report{
		TotalDocuments: agg.TotalDocuments,
		TotalPages:     agg.TotalPages,
		TotalBlocks:    agg.TotalBlocks,
		Documents:      agg.Documents,
	}

	var err error
	if r.AvgPagesPerDoc, err = stats.Mean(agg.PagesPerDoc); err != nil {
		return nil, fmt.Errorf("mean pages per doc: %w", err)
	}
	if r.AvgBlocksPerDoc, err = stats.Mean(agg.BlocksPerDoc); err != nil {
		return nil, fmt.Errorf("mean blocks per doc: %w", err)
	}
	if r.AvgBlocksPerPage, err = stats.Mean(agg.BlocksPerPage); err != nil {
		return nil, fmt.Errorf("mean blocks per page: %w", err)
	}

	durations := stats.Float64Data(agg.ParsingDurationsMs)
	if r.MeanParsingMs, err = durations.Mean(); err != nil {
		return nil, fmt.Errorf("mean parsing duration: %w", err)
	}
	if r.MedianParsingMs, err = durations.Median(); err != nil {
		return nil, fmt.Errorf("median parsing duration: %w", err)
	}
	if r.MinParsingMs, err = durations.Min(); err != nil {
		return nil, fmt.Errorf("min parsing duration: %w", err)
	}
	if r.MaxParsingMs, err = durations.Max(); err != nil {
		return nil, fmt.Errorf("max parsing duration: %w", err)
	}

	r.PagesPerSecond = perSecond(agg.TotalPages, dispatch)
	return r, nil
}
