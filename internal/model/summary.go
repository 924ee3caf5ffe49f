package model

import "time"

// Run status values reported in Summary.Status.
const (
	StatusOK               = "ok"
	StatusNoInput          = "no_input"
	StatusNoValidDocuments = "no_valid_documents"
)

// Summary captures metrics from a single load-test run.
type Summary struct {
	RunID          string        `json:"run_id"`
	Status         string        `json:"status"`
	InputDir       string        `json:"input_dir,omitempty"`
	OutputDir      string        `json:"output_dir"`
	Endpoint       string        `json:"endpoint,omitempty"`
	MaxConcurrent  int           `json:"max_concurrent,omitempty"`
	FilesFound     int           `json:"files_found"`
	FilesUploaded  int           `json:"files_uploaded"`
	FilesFailed    int           `json:"files_failed"`
	FilesPersisted int           `json:"files_persisted"`
	ResultsSkipped int           `json:"results_skipped"`
	Latency        *LatencyStats `json:"latency,omitempty"`
	Report         *Report       `json:"report,omitempty"`

	DurationDispatch  time.Duration `json:"duration_dispatch_ns"`
	DurationAggregate time.Duration `json:"duration_aggregate_ns"`
	DurationTotal     time.Duration `json:"duration_total_ns"`
}

// Report holds the statistics derived from AggregateStats. It is read-only
// once computed.
type Report struct {
	TotalDocuments int `json:"total_documents"`
	TotalPages     int `json:"total_pages"`
	TotalBlocks    int `json:"total_blocks"`

	AvgPagesPerDoc   float64 `json:"avg_pages_per_doc"`
	AvgBlocksPerDoc  float64 `json:"avg_blocks_per_doc"`
	AvgBlocksPerPage float64 `json:"avg_blocks_per_page"`

	MeanParsingMs   float64 `json:"mean_parsing_ms"`
	MedianParsingMs float64 `json:"median_parsing_ms"`
	MinParsingMs    float64 `json:"min_parsing_ms"`
	MaxParsingMs    float64 `json:"max_parsing_ms"`

	// PagesPerSecond is TotalPages over the wall clock of the dispatch phase.
	// Zero when no dispatch ran.
	PagesPerSecond float64 `json:"pages_per_second"`

	Documents []DocumentStats `json:"-"`
}

// LatencyStats describes client-observed request latency for one dispatch.
type LatencyStats struct {
	Count int           `json:"count"`
	Min   time.Duration `json:"min_ns"`
	Mean  time.Duration `json:"mean_ns"`
	Max   time.Duration `json:"max_ns"`
}
