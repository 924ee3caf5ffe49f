package loadtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/parseload/internal/config"
	"github.com/gyeh/parseload/internal/logging"
	"github.com/gyeh/parseload/internal/model"
	"github.com/gyeh/parseload/internal/report"
	"github.com/gyeh/parseload/internal/upload"
)

// Empty-result conditions. Run and Analyze report them through
// Summary.Status rather than returning them.
var (
	ErrNoInput          = errors.New("no input files found")
	ErrNoValidDocuments = errors.New("no valid documents found to analyze")
)

// PhaseError wraps an error with the phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Run executes a full load test: discover → dispatch → persist → aggregate.
// Configuration problems are returned as *config.ConfigurationError before any
// network activity. Per-file failures never abort the run.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*model.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client := upload.New(cfg.Endpoint, cfg.MaxConcurrent, cfg.Timeout)
	defer client.Close()
	return run(ctx, cfg, client, log)
}

// run is Run with an injected uploader; cfg must already be valid.
func run(ctx context.Context, cfg *config.Config, up Uploader, log zerolog.Logger) (*model.Summary, error) {
	totalStart := time.Now()
	summary := &model.Summary{
		RunID:         uuid.NewString(),
		InputDir:      cfg.InputDir,
		OutputDir:     cfg.OutputDir,
		Endpoint:      cfg.Endpoint,
		MaxConcurrent: cfg.MaxConcurrent,
	}
	log = logging.WithRun(log, summary.RunID)

	// Phase 1: Discover
	log.Info().Str("input_dir", cfg.InputDir).Int("limit", cfg.Limit).Msg("discovering input files")
	files, err := Discover(cfg.InputDir, cfg.Limit)
	if err != nil {
		return nil, err
	}
	summary.FilesFound = len(files)
	if len(files) == 0 {
		log.Warn().Str("input_dir", cfg.InputDir).Msg("no PDF files found")
		summary.Status = model.StatusNoInput
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	if err := EnsureOutputDir(cfg.OutputDir); err != nil {
		return nil, &PhaseError{Phase: "persist", Err: err}
	}
	log.Info().Str("output_dir", cfg.OutputDir).Msg("storing responses")

	// Phase 2: Dispatch
	log.Info().
		Int("files", len(files)).
		Int("max_concurrent", cfg.MaxConcurrent).
		Str("endpoint", cfg.Endpoint).
		Msg("starting dispatch")
	limiter := upload.NewLimiter(cfg.MaxConcurrent)
	dr := Dispatch(ctx, up, limiter, files, log)
	summary.FilesUploaded = dr.Succeeded
	summary.FilesFailed = dr.Failed
	summary.Latency = dr.Latency
	summary.DurationDispatch = dr.Duration

	// Phase 3: Persist
	written, err := Persist(cfg.OutputDir, dr.Outcomes, log)
	summary.FilesPersisted = written
	if err != nil {
		return nil, &PhaseError{Phase: "persist", Err: err}
	}

	// Phase 4: Aggregate
	if err := aggregateInto(summary, cfg.OutputDir, dr.Duration, log); err != nil {
		return nil, err
	}
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Str("status", summary.Status).
		Int("uploaded", summary.FilesUploaded).
		Int("failed", summary.FilesFailed).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load test complete")

	return summary, nil
}

// Analyze recomputes statistics over the results already present in the
// output directory without uploading anything.
func Analyze(cfg *config.Config, log zerolog.Logger) (*model.Summary, error) {
	if err := cfg.ValidateOutput(); err != nil {
		return nil, err
	}
	totalStart := time.Now()
	summary := &model.Summary{
		RunID:     uuid.NewString(),
		OutputDir: cfg.OutputDir,
	}
	log = logging.WithRun(log, summary.RunID)

	if err := aggregateInto(summary, cfg.OutputDir, 0, log); err != nil {
		return nil, err
	}
	summary.DurationTotal = time.Since(totalStart)
	return summary, nil
}

// AnalyzeParquet recomputes statistics from a per-document Parquet export
// written by an earlier run or analyze.
func AnalyzeParquet(path string, log zerolog.Logger) (*model.Summary, error) {
	totalStart := time.Now()
	summary := &model.Summary{RunID: uuid.NewString()}
	log = logging.WithRun(log, summary.RunID)

	r, err := report.OpenParquet(path)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "from_parquet", Err: err}
	}
	defer r.Close()

	log.Info().Str("path", path).Int64("rows", r.NumRows()).Msg("reading parquet export")
	docs, err := r.ReadAll()
	if err != nil {
		return nil, &PhaseError{Phase: "aggregate", Err: err}
	}

	agg := &model.AggregateStats{}
	for _, d := range docs {
		agg.Add(d)
	}
	if err := deriveInto(summary, agg, 0, log); err != nil {
		return nil, err
	}
	summary.DurationAggregate = time.Since(totalStart)
	summary.DurationTotal = summary.DurationAggregate
	return summary, nil
}

func aggregateInto(summary *model.Summary, outputDir string, dispatch time.Duration, log zerolog.Logger) error {
	start := time.Now()
	agg, err := Aggregate(outputDir, log)
	if err != nil {
		return &PhaseError{Phase: "aggregate", Err: err}
	}
	summary.ResultsSkipped = agg.Skipped

	err = deriveInto(summary, agg, dispatch, log.With().Str("output_dir", outputDir).Logger())
	summary.DurationAggregate = time.Since(start)
	return err
}

// deriveInto sets summary's report and status from agg.
func deriveInto(summary *model.Summary, agg *model.AggregateStats, dispatch time.Duration, log zerolog.Logger) error {
	rep, err := Derive(agg, dispatch)
	if errors.Is(err, ErrNoValidDocuments) {
		log.Warn().Msg("no valid documents found to analyze")
		summary.Status = model.StatusNoValidDocuments
		return nil
	}
	if err != nil {
		return &PhaseError{Phase: "aggregate", Err: err}
	}
	summary.Report = rep
	summary.Status = model.StatusOK
	return nil
}

// EmptyResult returns ErrNoInput or ErrNoValidDocuments when summary carries
// one of the empty-result statuses, and nil otherwise.
func EmptyResult(summary *model.Summary) error {
	switch summary.Status {
	case model.StatusNoInput:
		return ErrNoInput
	case model.StatusNoValidDocuments:
		return ErrNoValidDocuments
	}
	return nil
}
