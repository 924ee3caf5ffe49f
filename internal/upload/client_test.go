package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/parseload/internal/model"
)

const pdfBytes = "%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n"

func writeDoc(t *testing.T, name, content string) model.InputFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return model.InputFile{Path: path, Name: name, Size: int64(len(content))}
}

func TestUpload_SendsMultipartFile(t *testing.T) {
	var gotName, gotField, gotType string
	var gotBody []byte
	var gotFields int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		mr, err := r.MultipartReader()
		if !assert.NoError(t, err) {
			return
		}
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if !assert.NoError(t, err) {
				return
			}
			gotFields++
			gotField = part.FormName()
			gotName = part.FileName()
			gotType = part.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(part)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	doc := writeDoc(t, "report.pdf", pdfBytes)
	c := New(srv.URL, 2, 0)
	defer c.Close()

	body, err := c.Upload(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, `{"success":true}`, string(body))
	assert.Equal(t, 1, gotFields)
	assert.Equal(t, FormField, gotField)
	assert.Equal(t, "report.pdf", gotName)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, pdfBytes, string(gotBody))
}

func TestUpload_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "parser exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 1, 0)
	_, err := c.Upload(context.Background(), writeDoc(t, "c.pdf", pdfBytes))

	var se *StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Contains(t, se.Error(), "parser exploded")
}

func TestUpload_MissingFile(t *testing.T) {
	c := New("http://127.0.0.1:1/parse", 1, 0)
	_, err := c.Upload(context.Background(), model.InputFile{Path: "/nonexistent/x.pdf", Name: "x.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open document")
}

func TestUpload_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, 1, 20*time.Millisecond)
	_, err := c.Upload(context.Background(), writeDoc(t, "slow.pdf", pdfBytes))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send request")
}
