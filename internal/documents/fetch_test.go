package documents

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/models"
)

func newTestFetcher(maxRetries int) *Fetcher {
	return NewFetcher(FetcherConfig{
		RequestsPerSecond: 1000,
		Burst:             100,
		MaxRetries:        maxRetries,
		RetryDelay:        time.Millisecond,
	}, logger.NewNoOpLogger())
}

func TestGetData_RawData(t *testing.T) {
	f := newTestFetcher(0)
	doc, err := f.GetData(context.Background(), models.SourceInfo{RawData: []byte("%PDF-1.7\n"), Name: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, TypePDF, doc.Type)
	assert.Equal(t, "a.pdf", doc.Name)
}

func TestGetData_Path(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG\r\n\x1a\nrest"), 0o644))

	f := newTestFetcher(0)
	doc, err := f.GetData(context.Background(), models.SourceInfo{Path: p})
	require.NoError(t, err)
	assert.Equal(t, TypePNG, doc.Type)
	assert.Equal(t, "scan.png", doc.Name)

	_, err = f.GetData(context.Background(), models.SourceInfo{Path: filepath.Join(dir, "missing.pdf")})
	assert.Error(t, err)
}

func TestGetData_NoSource(t *testing.T) {
	f := newTestFetcher(0)
	_, err := f.GetData(context.Background(), models.SourceInfo{})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestGetData_ZoteroWithoutCredentials(t *testing.T) {
	f := newTestFetcher(0)
	_, err := f.GetData(context.Background(), models.SourceInfo{ZoteroID: "ABCD1234"})
	assert.Error(t, err)
}

func TestGetFromURL_RetriesOverload(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("%PDF-1.4\n"))
	}))
	defer srv.Close()

	f := newTestFetcher(3)
	doc, err := f.GetData(context.Background(), models.SourceInfo{URL: srv.URL + "/files/report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, TypePDF, doc.Type)
	assert.Equal(t, "report.pdf", doc.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetFromURL_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(3)
	_, err := f.GetFromURL(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetFromURL_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher(2)
	_, err := f.GetFromURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries (2) exceeded")
	assert.Equal(t, int32(3), calls.Load())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&StatusError{StatusCode: 429}, true},
		{&StatusError{StatusCode: 502}, true},
		{&StatusError{StatusCode: 404}, false},
		{errors.New("zotero: 429 Too Many Requests"), true},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryable(tt.err), tt.err.Error())
	}
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "a.pdf", nameFromURL("https://example.com/x/a.pdf?dl=1"))
	assert.Equal(t, "download", nameFromURL("https://example.com/"))
	assert.Equal(t, "download", nameFromURL("https://example.com"))
}
