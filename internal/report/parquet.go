package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/parseload/internal/model"
)

// requiredColumns must be present in a per-document export.
var requiredColumns = []string{"file", "pages", "blocks", "blocks_per_page", "parsing_duration_ms"}

// WriteParquet exports one row per aggregated document to path.
func WriteParquet(path string, docs []model.DocumentStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[model.DocumentStats](f)
	if _, err := w.Write(docs); err != nil {
		f.Close()
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

// Reader streams DocumentStats rows back out of an export.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.DocumentStats]
}

// OpenParquet opens an export written by WriteParquet.
func OpenParquet(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	r := parquet.NewGenericReader[model.DocumentStats](pf)
	if err := ValidateSchema(r.Schema()); err != nil {
		r.Close()
		f.Close()
		return nil, err
	}
	return &Reader{file: f, reader: r}, nil
}

// NumRows returns the number of exported documents.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// ReadAll returns every row in the export.
func (r *Reader) ReadAll() ([]model.DocumentStats, error) {
	rows := make([]model.DocumentStats, 0, r.NumRows())
	buf := make([]model.DocumentStats, 256)
	for {
		n, err := r.reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("read parquet rows: %w", err)
		}
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ValidateSchema checks that schema has every per-document column.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}
	var missing []string
	for _, col := range requiredColumns {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
