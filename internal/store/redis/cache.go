package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// DefaultPreviewTTL is used when SetPreview is called without a TTL.
const DefaultPreviewTTL = 6 * time.Hour

// SetPreview caches a resolved preview.
func (s *Store) SetPreview(ctx context.Context, rawURL string, preview domain.LinkPreview, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}

	data, err := json.Marshal(preview)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}

	if err := s.client.Set(ctx, PreviewKey(rawURL), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache preview: %w", err)
	}
	return nil
}

// GetPreview retrieves a cached preview. A miss returns nil, nil.
func (s *Store) GetPreview(ctx context.Context, rawURL string) (*domain.LinkPreview, error) {
	data, err := s.client.Get(ctx, PreviewKey(rawURL)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached preview: %w", err)
	}

	var preview domain.LinkPreview
	if err := json.Unmarshal(data, &preview); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preview: %w", err)
	}
	return &preview, nil
}
