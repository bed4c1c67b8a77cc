package resolver

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// Cache stores resolved previews keyed by the raw URL.
// GetPreview returns nil, nil on a miss.
type Cache interface {
	GetPreview(ctx context.Context, rawURL string) (*domain.LinkPreview, error)
	SetPreview(ctx context.Context, rawURL string, preview domain.LinkPreview, ttl time.Duration) error
}

// LRUCache is a bounded in-process cache. Entries expire after the TTL given
// at construction; the ttl argument of SetPreview is ignored.
type LRUCache struct {
	lru *expirable.LRU[string, domain.LinkPreview]
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{lru: expirable.NewLRU[string, domain.LinkPreview](size, nil, ttl)}
}

func (c *LRUCache) GetPreview(_ context.Context, rawURL string) (*domain.LinkPreview, error) {
	p, ok := c.lru.Get(rawURL)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *LRUCache) SetPreview(_ context.Context, rawURL string, preview domain.LinkPreview, _ time.Duration) error {
	c.lru.Add(rawURL, preview)
	return nil
}

// Len is the number of live entries.
func (c *LRUCache) Len() int { return c.lru.Len() }

// TieredCache checks caches in order. A hit in a later tier is copied into
// the earlier ones.
type TieredCache []Cache

func (t TieredCache) GetPreview(ctx context.Context, rawURL string) (*domain.LinkPreview, error) {
	var firstErr error
	for i, c := range t {
		p, err := c.GetPreview(ctx, rawURL)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if p == nil {
			continue
		}
		for _, earlier := range t[:i] {
			_ = earlier.SetPreview(ctx, rawURL, *p, 0)
		}
		return p, nil
	}
	return nil, firstErr
}

func (t TieredCache) SetPreview(ctx context.Context, rawURL string, preview domain.LinkPreview, ttl time.Duration) error {
	var firstErr error
	for _, c := range t {
		if err := c.SetPreview(ctx, rawURL, preview, ttl); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
