package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gyeh/parseload/internal/model"
)

// Write renders summary to w as "text" or "json".
func Write(w io.Writer, summary *model.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "text":
		return writeText(w, summary)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, s *model.Summary) error {
	p := &printer{w: w}

	switch s.Status {
	case model.StatusNoInput:
		p.printf("No PDF files found in %s\n", s.InputDir)
		return p.err
	case model.StatusNoValidDocuments:
		if s.FilesFound > 0 {
			p.printf("Uploaded %d/%d files (%d failed)\n", s.FilesUploaded, s.FilesFound, s.FilesFailed)
		}
		p.printf("No valid documents found to analyze\n")
		return p.err
	}

	if s.FilesFound > 0 {
		p.printf("=== parseload run %s ===\n", s.RunID)
		p.printf("Endpoint:        %s\n", s.Endpoint)
		p.printf("Max concurrent:  %d\n", s.MaxConcurrent)
		p.printf("Files uploaded:  %d/%d (%d failed)\n", s.FilesUploaded, s.FilesFound, s.FilesFailed)
		p.printf("Dispatch time:   %s\n", s.DurationDispatch.Round(time.Millisecond))
		if s.Latency != nil {
			p.printf("Request latency: min %s / mean %s / max %s\n",
				s.Latency.Min.Round(time.Millisecond),
				s.Latency.Mean.Round(time.Millisecond),
				s.Latency.Max.Round(time.Millisecond))
		}
	}

	r := s.Report
	p.printf("\nParsing Statistics:\n")
	p.printf("==================\n")
	p.printf("Total Documents Processed: %d\n", r.TotalDocuments)
	p.printf("Total Pages Processed: %d\n", r.TotalPages)
	p.printf("Total Blocks Extracted: %d\n", r.TotalBlocks)
	p.printf("Average Pages per Document: %.2f\n", r.AvgPagesPerDoc)
	p.printf("Average Blocks per Document: %.2f\n", r.AvgBlocksPerDoc)
	p.printf("Average Blocks per Page: %.2f\n", r.AvgBlocksPerPage)
	p.printf("Average Processing Time: %.2fms\n", r.MeanParsingMs)
	p.printf("Median Processing Time: %.2fms\n", r.MedianParsingMs)
	if s.FilesFound > 0 {
		p.printf("Pages per Second: %.2f\n", r.PagesPerSecond)
	}
	p.printf("Min Processing Time: %.2fms\n", r.MinParsingMs)
	p.printf("Max Processing Time: %.2fms\n", r.MaxParsingMs)
	if s.ResultsSkipped > 0 {
		p.printf("Skipped result files: %d\n", s.ResultsSkipped)
	}
	return p.err
}

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
