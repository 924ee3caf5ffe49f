package loadtest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/parseload/internal/model"
)

// ResultExt is appended to the input file name to form the result file name.
const ResultExt = ".json"

// ResultPath returns where the response for the named input is persisted.
func ResultPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+ResultExt)
}

// EnsureOutputDir creates the output directory if it is absent.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// Persist writes every successful response body verbatim to
// <outputDir>/<name>.json, replacing any earlier result for the same name.
// Empty bodies are logged and not written.
func Persist(outputDir string, outcomes []model.Outcome, log zerolog.Logger) (int, error) {
	start := time.Now()

	if err := EnsureOutputDir(outputDir); err != nil {
		return 0, err
	}

	written := 0
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		if len(o.Body) == 0 {
			log.Warn().Str("file", o.File.Name).Msg("empty response body, not persisted")
			continue
		}
		path := ResultPath(outputDir, o.File.Name)
		if err := os.WriteFile(path, o.Body, 0644); err != nil {
			return written, fmt.Errorf("write result %s: %w", path, err)
		}
		written++
	}

	log.Info().
		Int("files_written", written).
		Str("output_dir", outputDir).
		Dur("duration", time.Since(start)).
		Msg("responses persisted")

	return written, nil
}
