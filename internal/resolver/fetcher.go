package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/utils"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (compatible; StashBot/1.0)"
	DefaultTimeout      = 10 * time.Second
	DefaultMaxRedirects = 5
	DefaultMaxBodyBytes = 2 << 20
)

// Page is a successfully fetched document.
type Page struct {
	URL         string // final URL after redirects
	StatusCode  int
	ContentType string
	Body        []byte
}

// Fetcher retrieves a remote page. Any error means the page is unusable.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// FetcherOptions configures an HTTPFetcher. Zero values fall back to defaults.
type FetcherOptions struct {
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int
	UserAgent    string
	AllowPrivate bool
	Transport    http.RoundTripper // overrides the guarded transport (tests)
	Logger       logger.Logger
}

// HTTPFetcher fetches pages with a single GET: no retries, no cookies.
type HTTPFetcher struct {
	client  *resty.Client
	maxBody int64
}

func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = NewGuardedTransport(opts.AllowPrivate)
	}

	client := resty.New().
		SetTransport(transport).
		SetTimeout(opts.Timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(opts.MaxRedirects)).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetDoNotParseResponse(true)
	if opts.Logger != nil {
		client.SetLogger(opts.Logger)
	}

	return &HTTPFetcher{
		client:  client,
		maxBody: int64(opts.MaxBodyBytes),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrFetchFailed, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", domain.ErrFetchFailed)
	}

	res, err := f.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	body := res.RawBody()
	defer utils.Close(body)

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailed, res.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrFetchFailed, err)
	}

	finalURL := rawURL
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &Page{
		URL:         finalURL,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        data,
	}, nil
}
