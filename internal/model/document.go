package model

import (
	"encoding/json"
	"errors"
)

// ParsedDocumentResult mirrors the JSON body returned by the parse service.
// Pointer and raw fields let validation tell a missing field from a zero one.
type ParsedDocumentResult struct {
	Success *bool           `json:"success"`
	Data    *ParsedDocument `json:"data"`
	Error   *string         `json:"error,omitempty"`
}

// ParsedDocument is the data object of a successful parse.
type ParsedDocument struct {
	ID       string            `json:"id,omitempty"`
	DocName  string            `json:"doc_name,omitempty"`
	Pages    []json.RawMessage `json:"pages"`
	Blocks   []json.RawMessage `json:"blocks"`
	Metadata *DocumentMetadata `json:"metadata"`
}

// DocumentMetadata carries parse timings reported by the service.
type DocumentMetadata struct {
	ParsingDuration *float64 `json:"parsing_duration"` // milliseconds
	FerrulesVersion string   `json:"ferrules_version,omitempty"`
}

var (
	ErrNotSuccessful   = errors.New("success is not true")
	ErrMissingData     = errors.New("missing data")
	ErrMissingPages    = errors.New("missing data.pages")
	ErrMissingBlocks   = errors.New("missing data.blocks")
	ErrMissingDuration = errors.New("missing data.metadata.parsing_duration")
)

// Validate checks that r is a successful result with every field needed for
// aggregation.
func (r *ParsedDocumentResult) Validate() error {
	if r.Success == nil || !*r.Success {
		return ErrNotSuccessful
	}
	if r.Data == nil {
		return ErrMissingData
	}
	if r.Data.Pages == nil {
		return ErrMissingPages
	}
	if r.Data.Blocks == nil {
		return ErrMissingBlocks
	}
	if r.Data.Metadata == nil || r.Data.Metadata.ParsingDuration == nil {
		return ErrMissingDuration
	}
	return nil
}

// DocumentStats is the per-document contribution to AggregateStats.
type DocumentStats struct {
	File            string  `parquet:"file" json:"file"`
	Pages           int64   `parquet:"pages" json:"pages"`
	Blocks          int64   `parquet:"blocks" json:"blocks"`
	BlocksPerPage   float64 `parquet:"blocks_per_page" json:"blocks_per_page"`
	ParsingDuration float64 `parquet:"parsing_duration_ms" json:"parsing_duration_ms"`
}

// NewDocumentStats derives the per-document counts from a validated result.
// A document with zero pages has a blocks-per-page ratio of 0.
func NewDocumentStats(file string, r *ParsedDocumentResult) DocumentStats {
	pages := len(r.Data.Pages)
	blocks := len(r.Data.Blocks)
	var bpp float64
	if pages > 0 {
		bpp = float64(blocks) / float64(pages)
	}
	return DocumentStats{
		File:            file,
		Pages:           int64(pages),
		Blocks:          int64(blocks),
		BlocksPerPage:   bpp,
		ParsingDuration: *r.Data.Metadata.ParsingDuration,
	}
}
