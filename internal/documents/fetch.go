package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Epistemic-Technology/zotero/zotero"
	"golang.org/x/time/rate"

	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/models"
)

const (
	defaultRequestsPerSecond = 4
	defaultBurst             = 8
	defaultMaxRetries        = 3
	defaultRetryDelay        = 500 * time.Millisecond
	maxRetryDelay            = 8 * time.Second
	defaultTimeout           = 60 * time.Second
	// maxDocumentSize bounds remote downloads and local reads.
	maxDocumentSize = 256 << 20
)

// ErrNoSource is returned when a SourceInfo names no source at all.
var ErrNoSource = errors.New("no data provided")

// FetcherConfig configures remote access for a Fetcher. Zero values use
// defaults.
type FetcherConfig struct {
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	RetryDelay        time.Duration
	Timeout           time.Duration
	ZoteroAPIKey      string
	ZoteroLibraryID   string
}

// Fetcher resolves a SourceInfo to document bytes. Remote requests share a
// rate limiter and are retried with exponential backoff when the remote end
// reports overload.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
	maxRetries int
	retryDelay time.Duration
	zoteroKey  string
	zoteroLib  string
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig, log logger.Logger) *Fetcher {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Fetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:        log,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		zoteroKey:  cfg.ZoteroAPIKey,
		zoteroLib:  cfg.ZoteroLibraryID,
	}
}

// GetData retrieves document data from a source and detects its type
func (f *Fetcher) GetData(ctx context.Context, info models.SourceInfo) (models.DocumentData, error) {
	var data []byte
	var name string
	var err error

	switch {
	case info.RawData != nil:
		data, name = info.RawData, "upload"
	case info.Path != "":
		data, err = readFile(info.Path)
		name = filepath.Base(info.Path)
	case info.URL != "":
		data, err = f.GetFromURL(ctx, info.URL)
		name = nameFromURL(info.URL)
	case info.ZoteroID != "":
		data, err = f.GetFromZotero(ctx, info.ZoteroID)
		name = "zotero-" + info.ZoteroID
	default:
		return models.DocumentData{}, ErrNoSource
	}
	if err != nil {
		return models.DocumentData{}, err
	}
	if len(data) == 0 {
		return models.DocumentData{}, errors.New("no data retrieved")
	}
	if info.Name != "" {
		name = info.Name
	}

	return models.DocumentData{
		Data: data,
		Type: DetectDocumentType(data),
		Name: name,
	}, nil
}

// GetFromURL fetches document data from a URL
func (f *Fetcher) GetFromURL(ctx context.Context, rawURL string) ([]byte, error) {
	return withRetry(ctx, f, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		}
		return readLimited(resp.Body)
	})
}

// GetFromZotero fetches an attachment file from the configured Zotero library
func (f *Fetcher) GetFromZotero(ctx context.Context, zoteroID string) ([]byte, error) {
	if f.zoteroKey == "" || f.zoteroLib == "" {
		return nil, errors.New("Zotero API key and library ID are required")
	}
	client := zotero.NewClient(f.zoteroLib, zotero.LibraryTypeUser, zotero.WithAPIKey(f.zoteroKey))
	return withRetry(ctx, f, func(ctx context.Context) ([]byte, error) {
		return client.File(ctx, zoteroID)
	})
}

// ZoteroCredentials returns the configured Zotero API key and library ID.
func (f *Fetcher) ZoteroCredentials() (apiKey, libraryID string) {
	return f.zoteroKey, f.zoteroLib
}

// StatusError is a non-200 HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// withRetry waits for the shared limiter, then calls fn, retrying with
// exponential backoff while the error is retryable.
func withRetry[T any](ctx context.Context, f *Fetcher, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(float64(f.retryDelay) * math.Pow(2, float64(attempt-1)))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}
			f.log.Info("Retry attempt %d/%d after %v delay", attempt, f.maxRetries, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return zero, err
		}
		f.log.Warn("retryable fetch error on attempt %d/%d: %v", attempt+1, f.maxRetries+1, err)
	}
	return zero, fmt.Errorf("max retries (%d) exceeded, last error: %w", f.maxRetries, lastErr)
}

// isRetryable reports whether err signals a temporary overload: HTTP 429 or
// a 5xx from our own requests, or a Zotero error mentioning one.
func isRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	msg := err.Error()
	for _, marker := range []string{"429", "Too Many Requests", "503", "Service Unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return data, nil
}

func readFile(p string) ([]byte, error) {
	file, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readLimited(file)
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "download"
	}
	return base
}
