package loadtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyeh/parseload/internal/config"
	"github.com/gyeh/parseload/internal/stubserver"
)

const samplePDF = "%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n"

// writeInputs creates the named documents in a fresh directory.
func writeInputs(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(samplePDF), 0644))
	}
	return dir
}

// startStub mounts a stub parse service on an httptest server.
func startStub(t *testing.T, opts ...stubserver.Option) (*stubserver.Server, string) {
	t.Helper()
	stub := stubserver.New(opts...)
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return stub, srv.URL + "/parse"
}

func testConfig(t *testing.T, inputDir, endpoint string, maxConcurrent int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InputDir = inputDir
	cfg.OutputDir = filepath.Join(t.TempDir(), "responses")
	cfg.Endpoint = endpoint
	cfg.MaxConcurrent = maxConcurrent
	return &cfg
}

// logLines decodes JSON log output into one map per line.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func writeResult(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}
