package forum

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Dadihu123/ST-Manager/internal/infrastructure/config"
	"github.com/Dadihu123/ST-Manager/internal/infrastructure/monitoring"
	"github.com/Dadihu123/ST-Manager/internal/logging"
)

// Fixed user-facing error texts carried in FetchResult.
const (
	ErrMsgInvalidDomain = "invalid domain"
	ErrMsgTagsNotFound  = "tags not found, possibly requires login or page format mismatch"
)

// FetchResult is the outcome of one FetchTags call. Immutable once produced.
type FetchResult struct {
	Success bool     `json:"success"`
	Tags    []string `json:"tags"`
	Error   string   `json:"error,omitempty"`
	Title   string   `json:"title,omitempty"`
}

// Fetcher retrieves tag lists from forum post pages. Construct one per
// process (or request scope) and inject it; the underlying client pools
// connections and is reused across calls.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	domains []string
	maxBody int64
	scanner *TagScanner
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewFetcher creates a fetcher with a pooled, timeout-bounded HTTP client.
// metrics may be nil.
func NewFetcher(cfg config.ForumConfig, scanner *TagScanner, log *logging.Logger, metrics *monitoring.Metrics) *Fetcher {
	if log == nil {
		log = logging.NewNop()
	}

	// The two-attempt fallback owns retrying; the transport layer only
	// supplies connection pooling.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	client := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 10 * 1024 * 1024
	}

	return &Fetcher{
		client:  client,
		limiter: limiter,
		domains: cfg.Domains,
		maxBody: maxBody,
		scanner: scanner,
		log:     log,
		metrics: metrics,
	}
}

// IsValidURL reports whether raw parses and its host equals, or is a
// subdomain of, one of the allow-listed forum domains. Never panics; any
// parse failure yields false.
func (f *Fetcher) IsValidURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, domain := range f.domains {
		domain = strings.ToLower(domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// FetchTags retrieves the tag list of a forum post. The URL is normalized by
// stripping trailing slashes, then fetched with the first-page suffix "/0";
// when that attempt yields no tags the bare URL is retried. Network failures
// and non-2xx responses on an attempt count as "no tags" for that attempt
// and never abort the sequence.
func (f *Fetcher) FetchTags(ctx context.Context, rawURL string) FetchResult {
	if !f.IsValidURL(rawURL) {
		return FetchResult{Tags: []string{}, Error: ErrMsgInvalidDomain}
	}

	normalized := strings.TrimRight(rawURL, "/")

	tags, title, err := f.tryFetch(ctx, normalized+"/0", "first_page")
	if err != nil {
		f.log.Debug("first-page attempt failed", zap.String("url", normalized+"/0"), zap.Error(err))
	}
	if len(tags) > 0 {
		f.log.Info("tags fetched from first page", zap.String("url", normalized), zap.Int("count", len(tags)))
		f.observeTags(len(tags))
		return FetchResult{Success: true, Tags: tags, Title: title}
	}

	tags2, title2, err2 := f.tryFetch(ctx, normalized, "bare")
	if err2 != nil {
		f.log.Debug("bare attempt failed", zap.String("url", normalized), zap.Error(err2))
	}
	if len(tags2) > 0 {
		f.log.Info("tags fetched from bare url", zap.String("url", normalized), zap.Int("count", len(tags2)))
		f.observeTags(len(tags2))
		if title2 == "" {
			title2 = title
		}
		return FetchResult{Success: true, Tags: tags2, Title: title2}
	}

	f.log.Warn("no tags found", zap.String("url", normalized))
	if title == "" {
		title = title2
	}
	return FetchResult{Tags: []string{}, Error: ErrMsgTagsNotFound, Title: title}
}

// tryFetch performs one fetch/scan/title pass. Transport errors and non-2xx
// statuses are returned to the caller, which treats them as an empty attempt.
func (f *Fetcher) tryFetch(ctx context.Context, fetchURL, attempt string) ([]string, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit: %w", err)
	}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(fetchURL)
	if f.metrics != nil {
		f.metrics.FetchDuration.WithLabelValues(attempt).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		f.observeAttempt(attempt, "transport_error")
		return nil, "", err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		f.observeAttempt(attempt, "http_error")
		return nil, "", fmt.Errorf("http status %d", resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBody))
	if err != nil {
		f.observeAttempt(attempt, "read_error")
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	doc := DecodeHTML(data)

	scanStart := time.Now()
	tags := f.scanner.ScanString(doc)
	if f.metrics != nil {
		f.metrics.ScanDuration.Observe(time.Since(scanStart).Seconds())
	}

	title := ExtractTitle(doc)

	if len(tags) == 0 {
		f.observeAttempt(attempt, "no_tags")
	} else {
		f.observeAttempt(attempt, "ok")
	}
	return tags, title, nil
}

func (f *Fetcher) observeAttempt(attempt, outcome string) {
	if f.metrics != nil {
		f.metrics.FetchAttempts.WithLabelValues(attempt, outcome).Inc()
	}
}

func (f *Fetcher) observeTags(n int) {
	if f.metrics != nil {
		f.metrics.TagsExtracted.Observe(float64(n))
	}
}
