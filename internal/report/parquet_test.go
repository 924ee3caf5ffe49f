package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/parseload/internal/model"
)

func TestParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.parquet")
	docs := []model.DocumentStats{
		{File: "a.pdf", Pages: 2, Blocks: 3, BlocksPerPage: 1.5, ParsingDuration: 100},
		{File: "b.pdf", Pages: 0, Blocks: 1, BlocksPerPage: 0, ParsingDuration: 12.5},
	}
	require.NoError(t, WriteParquet(path, docs))

	r, err := OpenParquet(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(2), r.NumRows())
	got, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, docs, got)
}

func TestWriteParquet_BadPath(t *testing.T) {
	err := WriteParquet(filepath.Join(t.TempDir(), "missing", "docs.parquet"), nil)
	assert.Error(t, err)
}

func TestOpenParquet_NotParquet(t *testing.T) {
	_, err := OpenParquet(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}
