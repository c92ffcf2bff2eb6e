package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/transfermatch/internal/cache"
	"github.com/ppiankov/transfermatch/internal/model"
	"github.com/ppiankov/transfermatch/internal/util"
	"github.com/ppiankov/transfermatch/internal/worker"
)

const fetchAttempts = 3

// ErrDisallowed is returned when robots.txt forbids fetching an agreement
var ErrDisallowed = errors.New("disallowed by robots.txt")

// ErrTooLarge is returned when an agreement exceeds the configured body limit
var ErrTooLarge = errors.New("agreement document too large")

// FetchError describes a failed agreement fetch
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed: server errors,
// 429 and transport failures are; client errors, robots refusals and
// oversized bodies are not
func (e *FetchError) Retryable() bool {
	if e.StatusCode != 0 {
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	}
	if e.Err == nil {
		return false
	}
	return !errors.Is(e.Err, ErrDisallowed) &&
		!errors.Is(e.Err, ErrTooLarge) &&
		!errors.Is(e.Err, context.Canceled) &&
		!errors.Is(e.Err, context.DeadlineExceeded)
}

func isRetryableFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Retryable()
}

// fetchSleepFunc waits between attempts; tests replace it
var fetchSleepFunc = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fetcher loads raw agreement documents from files or http(s) URLs
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	robots    *util.RobotsChecker
	limiter   *worker.Limiter
	cache     cache.Cache
	logger    *slog.Logger
}

// NewFetcher creates a fetcher. store may be nil to disable caching.
func NewFetcher(cfg *model.Config, store cache.Cache, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = cache.NopCache{}
	}

	client := util.NewHTTPClient(cfg.HTTP)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	f := &Fetcher{
		client:    client,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   worker.NewLimiter(cfg.RateLimiting),
		cache:     store,
		logger:    logger,
	}
	if cfg.HTTP.RespectRobots {
		f.robots = util.NewRobotsChecker(client, cfg.HTTP.UserAgent, logger)
	}
	return f
}

// IsRemote reports whether source is an http(s) URL
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load returns the raw document for source. Files are read directly;
// URLs go through the cache and then the network.
func (f *Fetcher) Load(ctx context.Context, source string) ([]byte, error) {
	if !IsRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read agreement: %w", err)
		}
		agreementLoads.WithLabelValues("file").Inc()
		return data, nil
	}

	key := cache.CacheKey(source)
	if data, ok := f.cache.Get(key); ok {
		f.logger.Debug("agreement cache hit", "url", source)
		agreementLoads.WithLabelValues("cache").Inc()
		return data, nil
	}

	data, err := f.FetchWithRetry(ctx, source)
	if err != nil {
		return nil, err
	}
	agreementLoads.WithLabelValues("http").Inc()

	if err := f.cache.Set(key, data, 0); err != nil {
		f.logger.Warn("caching agreement failed", "url", source, "error", err)
	}
	return data, nil
}

// FetchWithRetry fetches rawURL, retrying transient failures with
// exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	backoff := time.Second
	var lastErr error

	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		data, err := f.Fetch(ctx, rawURL)
		if err == nil {
			fetchAttemptsTotal.WithLabelValues("ok").Inc()
			return data, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			fetchAttemptsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		fetchAttemptsTotal.WithLabelValues("retry").Inc()

		if attempt < fetchAttempts {
			f.logger.Warn("agreement fetch failed, retrying", "url", rawURL, "attempt", attempt, "backoff", backoff, "error", err)
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", fetchAttempts, lastErr)
}

// Fetch performs a single GET of an agreement document
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, &FetchError{URL: rawURL, Err: ErrDisallowed}
		}
		f.limiter.SlowDown(rawURL, crawlDelay)
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Err: ErrTooLarge}
	}

	return data, nil
}
