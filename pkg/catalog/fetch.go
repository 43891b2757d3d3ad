package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher resolves a catalog entry to a local coefficient file path.
type Fetcher interface {
	Fetch(ctx context.Context, entry Entry) (string, error)
}

// statusError reports a non-2xx download response.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("download of %s returned status %d", e.url, e.code)
}

// HTTPFetcher downloads model files into a cache directory. A cached file
// is reused without touching the network.
type HTTPFetcher struct {
	client   *http.Client
	cacheDir string
}

// NewHTTPFetcher creates a fetcher caching under cacheDir. Client may be
// nil, in which case a client with a 5 minute timeout is used.
func NewHTTPFetcher(client *http.Client, cacheDir string) (*HTTPFetcher, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &HTTPFetcher{client: client, cacheDir: cacheDir}, nil
}

// CachePath returns where the entry's file lives in the cache.
func (f *HTTPFetcher) CachePath(entry Entry) string {
	return filepath.Join(f.cacheDir, entry.Name+".shape")
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, entry Entry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	path := f.CachePath(entry)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, entry.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download of %s failed: %w", entry.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, url: entry.URL}
	}

	// Download to a temp file first so a partial transfer never
	// poisons the cache.
	tmp, err := os.CreateTemp(f.cacheDir, entry.Name+".*.partial")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download of %s interrupted: %w", entry.URL, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move download into cache: %w", err)
	}
	return path, nil
}

// RetryConfig holds configuration for download retry behavior
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int
	// InitialDelay is the initial delay before the first retry (default: 1 second)
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries (default: 60 seconds)
	MaxDelay time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff (default: 2.0)
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryFetcher wraps a Fetcher and adds retry logic with exponential
// backoff for transient failures.
type RetryFetcher struct {
	fetcher Fetcher
	config  *RetryConfig
}

// NewRetryFetcher creates a new retry wrapper. Config may be nil.
func NewRetryFetcher(fetcher Fetcher, config *RetryConfig) *RetryFetcher {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 1 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 60 * time.Second
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	return &RetryFetcher{fetcher: fetcher, config: config}
}

// Fetch implements Fetcher with retries.
func (r *RetryFetcher) Fetch(ctx context.Context, entry Entry) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.calculateDelay(attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled during retry backoff: %w", ctx.Err())
			}
		}

		path, err := r.fetcher.Fetch(ctx, entry)
		if err == nil {
			return path, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateDelay computes the backoff delay for the given attempt.
func (r *RetryFetcher) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay) *
		math.Pow(r.config.BackoffMultiplier, float64(attempt-1))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}
	return time.Duration(delay)
}

// isRetryableError reports whether a download failure is worth retrying:
// network errors, timeouts, rate limits, and server-side errors are;
// client errors are not.
func isRetryableError(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// Wrapped transport errors surface as plain errors; the HTTPFetcher
	// annotates them with "failed" or "interrupted".
	return errors.Is(err, io.ErrUnexpectedEOF)
}
