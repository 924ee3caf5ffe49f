package loadtest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gyeh/parseload/internal/config"
	"github.com/gyeh/parseload/internal/model"
)

// InputExt is the extension of documents picked up from the input directory.
const InputExt = ".pdf"

// Discover lists the regular *.pdf files in dir in directory-listing order,
// keeping at most limit of them when limit > 0.
func Discover(dir string, limit int) ([]model.InputFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "input_dir", Err: fmt.Errorf("list directory: %w", err)}
	}

	var files []model.InputFile
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != InputExt {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks, unlike entry.Info.
		stat, err := os.Stat(path)
		if err != nil || !stat.Mode().IsRegular() {
			continue
		}
		files = append(files, model.InputFile{
			Path: path,
			Name: entry.Name(),
			Size: stat.Size(),
		})
		if limit > 0 && len(files) == limit {
			break
		}
	}
	return files, nil
}

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
