package resolver

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
)

// Result pairs a preview with how it was obtained. Degraded previews are
// still usable; Cause says why they are sparse.
type Result struct {
	Preview  domain.LinkPreview
	Degraded bool
	Cause    error
	Cached   bool
}

// Resolver turns a raw URL into a LinkPreview. It keeps no per-call state and
// is safe for concurrent use.
type Resolver struct {
	fetcher  Fetcher
	parser   Parser
	logger   logger.Logger
	cache    Cache
	cacheTTL time.Duration
	metrics  *Metrics
	group    singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache consults c before fetching and stores non-degraded previews in it.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func New(fetcher Fetcher, parser Parser, log logger.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		parser:  parser,
		logger:  log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve classifies rawURL and builds its preview.
//
// The only errors are domain.ErrInvalidInput for an empty URL (no network
// call is made) and domain.ErrUnexpected. Fetch and parse failures yield a
// degraded Result instead.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		r.metrics.observe(domain.SourceOther, OutcomeRejected)
		return Result{}, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	if p := r.cached(ctx, rawURL); p != nil {
		r.metrics.observe(p.Type, OutcomeCached)
		return Result{Preview: *p, Cached: true}, nil
	}

	// The shared fetch must outlive any single caller; the fetcher's own
	// timeout bounds it. Each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(rawURL, func() (any, error) {
		return r.resolve(shared, rawURL)
	})

	select {
	case <-ctx.Done():
		res := Result{
			Preview:  domain.FallbackPreview(rawURL),
			Degraded: true,
			Cause:    fmt.Errorf("%w: %w", domain.ErrFetchFailed, ctx.Err()),
		}
		r.metrics.observe(res.Preview.Type, OutcomeDegraded)
		return res, nil
	case out := <-ch:
		if out.Err != nil {
			r.metrics.observe(domain.Classify(rawURL), OutcomeFailed)
			return Result{}, out.Err
		}
		res := out.Val.(Result)
		if res.Degraded {
			r.metrics.observe(res.Preview.Type, OutcomeDegraded)
		} else {
			r.metrics.observe(res.Preview.Type, OutcomeResolved)
		}
		return res, nil
	}
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("panic while resolving link",
				logger.String("url", rawURL),
				logger.String("panic", fmt.Sprint(rec)))
			res, err = Result{}, fmt.Errorf("%w: %v", domain.ErrUnexpected, rec)
		}
	}()

	preview := domain.FallbackPreview(rawURL)

	start := time.Now()
	page, err := r.fetcher.Fetch(ctx, rawURL)
	r.metrics.observeFetch(time.Since(start))
	if err != nil {
		r.logger.Warn("link fetch failed, using url-only preview",
			logger.String("url", rawURL),
			logger.String("type", string(preview.Type)),
			logger.Error(err))
		return Result{Preview: preview, Degraded: true, Cause: err}, nil
	}

	og, parseErr := r.parse(page)
	if parseErr != nil {
		r.logger.Warn("link parse failed, treating tags as absent",
			logger.String("url", rawURL),
			logger.Error(parseErr))
	}

	preview.Title = firstNonEmpty(og.Title, og.DocumentTitle, rawURL)
	preview.Metadata.Description = og.Description
	preview.Metadata.Image = absoluteURL(page.URL, og.Image)

	if preview.Type == domain.SourceYouTube {
		if videoID, ok := domain.ExtractYouTubeID(rawURL); ok {
			preview.Metadata.VideoID = videoID
			if preview.Metadata.Image == "" {
				preview.Metadata.Image = domain.YouTubeThumbnail(videoID)
			}
		}
	}

	res = Result{Preview: preview}
	if parseErr != nil {
		res.Degraded = true
		res.Cause = parseErr
		return res, nil
	}

	r.store(ctx, rawURL, preview)
	return res, nil
}

// parse skips documents that are clearly not HTML; they simply have no tags.
func (r *Resolver) parse(page *Page) (OpenGraph, error) {
	if !looksLikeHTML(page.ContentType) {
		return OpenGraph{}, nil
	}
	return r.parser.Parse(bytes.NewReader(page.Body))
}

func (r *Resolver) cached(ctx context.Context, rawURL string) *domain.LinkPreview {
	if r.cache == nil {
		return nil
	}
	p, err := r.cache.GetPreview(ctx, rawURL)
	if err != nil {
		r.logger.Debug("preview cache lookup failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return nil
	}
	return p
}

func (r *Resolver) store(ctx context.Context, rawURL string, p domain.LinkPreview) {
	if r.cache == nil {
		return
	}
	if err := r.cache.SetPreview(ctx, rawURL, p, r.cacheTTL); err != nil {
		r.logger.Debug("failed to cache preview",
			logger.String("url", rawURL),
			logger.Error(err))
	}
}

func looksLikeHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return true
	}
	return strings.Contains(mediaType, "html") || strings.Contains(mediaType, "xml")
}

// absoluteURL resolves a possibly relative og:image against the page URL.
func absoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
