package loadtest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/parseload/internal/model"
)

const validResult = `{"success": true, "data": {"pages": [1,2], "blocks": [1,2,3], "metadata": {"parsing_duration": 100}}}`

func TestAggregate_SkipsInvalidResults(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "good1.pdf.json", validResult)
	writeResult(t, dir, "good2.pdf.json", `{"success": true, "data": {"pages": [{}], "blocks": [], "metadata": {"parsing_duration": 40}}}`)
	writeResult(t, dir, "failed.pdf.json", `{"success": false, "error": "bad pdf"}`)
	writeResult(t, dir, "nosuccess.pdf.json", `{"data": {"pages": [], "blocks": [], "metadata": {"parsing_duration": 1}}}`)
	writeResult(t, dir, "truncated.pdf.json", `{"success": true, "data": {"pages": [`)
	writeResult(t, dir, "nodata.pdf.json", `{"success": true}`)
	writeResult(t, dir, "nopages.pdf.json", `{"success": true, "data": {"blocks": [], "metadata": {"parsing_duration": 1}}}`)
	writeResult(t, dir, "noblocks.pdf.json", `{"success": true, "data": {"pages": [], "metadata": {"parsing_duration": 1}}}`)
	writeResult(t, dir, "nometa.pdf.json", `{"success": true, "data": {"pages": [], "blocks": []}}`)
	writeResult(t, dir, "pagesnotlist.pdf.json", `{"success": true, "data": {"pages": 3, "blocks": [], "metadata": {"parsing_duration": 1}}}`)
	// not matched by *.pdf.json
	writeResult(t, dir, "other.json", validResult)
	writeResult(t, dir, "good1.pdf", validResult)

	agg, err := Aggregate(dir, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, agg.TotalDocuments)
	assert.Equal(t, 8, agg.Skipped)
	assert.Equal(t, 3, agg.TotalPages)
	assert.Equal(t, 3, agg.TotalBlocks)
	assert.Equal(t, []float64{100, 40}, agg.ParsingDurationsMs)
	assert.Equal(t, []float64{2, 1}, agg.PagesPerDoc)
	assert.Equal(t, []float64{3, 0}, agg.BlocksPerDoc)
	assert.Equal(t, "good1.pdf", agg.Documents[0].File)
}

func TestAggregate_ZeroPagesContributesZeroBlocksPerPage(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "a.pdf.json", `{"success": true, "data": {"pages": [], "blocks": [1,2], "metadata": {"parsing_duration": 5}}}`)
	writeResult(t, dir, "b.pdf.json", `{"success": true, "data": {"pages": [1], "blocks": [1,2], "metadata": {"parsing_duration": 7}}}`)

	agg, err := Aggregate(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, agg.BlocksPerPage)

	report, err := Derive(agg, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.AvgBlocksPerPage)
}

func TestAggregate_MissingDir(t *testing.T) {
	agg, err := Aggregate(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, agg.TotalDocuments)
}

func TestAggregate_UnreadableEntryIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeResult(t, dir, "a.pdf.json", validResult)
	// a dangling symlink matches the pattern but cannot be read
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "b.pdf.json")))

	agg, err := Aggregate(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, agg.TotalDocuments)
	assert.Equal(t, 1, agg.Skipped)
}

func TestDerive(t *testing.T) {
	agg := &model.AggregateStats{}
	for _, d := range []model.DocumentStats{
		{File: "a.pdf", Pages: 2, Blocks: 4, BlocksPerPage: 2, ParsingDuration: 100},
		{File: "b.pdf", Pages: 4, Blocks: 4, BlocksPerPage: 1, ParsingDuration: 300},
		{File: "c.pdf", Pages: 6, Blocks: 12, BlocksPerPage: 2, ParsingDuration: 200},
	} {
		agg.Add(d)
	}

	r, err := Derive(agg, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, r.TotalDocuments)
	assert.Equal(t, 12, r.TotalPages)
	assert.Equal(t, 20, r.TotalBlocks)
	assert.Equal(t, 4.0, r.AvgPagesPerDoc)
	assert.InDelta(t, 20.0/3, r.AvgBlocksPerDoc, 1e-9)
	assert.InDelta(t, 5.0/3, r.AvgBlocksPerPage, 1e-9)
	assert.Equal(t, 200.0, r.MeanParsingMs)
	assert.Equal(t, 200.0, r.MedianParsingMs)
	assert.Equal(t, 100.0, r.MinParsingMs)
	assert.Equal(t, 300.0, r.MaxParsingMs)
	assert.Equal(t, 6.0, r.PagesPerSecond)
	assert.Len(t, r.Documents, 3)
}

func TestDerive_Empty(t *testing.T) {
	_, err := Derive(&model.AggregateStats{}, time.Second)
	assert.True(t, errors.Is(err, ErrNoValidDocuments))
}
