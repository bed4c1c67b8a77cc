package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// SaveLink creates or replaces a link and keeps the owner set and the trash
// index in sync.
func (s *Store) SaveLink(ctx context.Context, link *domain.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, LinkKey(link.ID), data, 0)
	pipe.SAdd(ctx, UserLinksKey(link.UserID), link.ID)
	if link.IsArchived && link.ArchivedAt != nil {
		pipe.ZAdd(ctx, TrashKey(), redis.Z{Score: float64(link.ArchivedAt.Unix()), Member: link.ID})
	} else {
		pipe.ZRem(ctx, TrashKey(), link.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}

// GetLink retrieves a link by ID
func (s *Store) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	var link domain.Link
	if err := s.getJSON(ctx, LinkKey(id), &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinksByUser returns every link a user owns, in no particular order.
func (s *Store) ListLinksByUser(ctx context.Context, userID string) ([]*domain.Link, error) {
	ids, err := s.client.SMembers(ctx, UserLinksKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LinkKey(id)
	}
	return getMany[domain.Link](ctx, s, keys)
}

// DeleteLink removes a link and its index entries.
func (s *Store) DeleteLink(ctx context.Context, link *domain.Link) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, LinkKey(link.ID))
	pipe.SRem(ctx, UserLinksKey(link.UserID), link.ID)
	pipe.ZRem(ctx, TrashKey(), link.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

// ArchivedBefore returns links trashed at or before cutoff.
func (s *Store) ArchivedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Link, error) {
	ids, err := s.client.ZRangeByScore(ctx, TrashKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trash index: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LinkKey(id)
	}
	return getMany[domain.Link](ctx, s, keys)
}

// SaveLinksMany stores multiple links in one pipeline (bulk import).
func (s *Store) SaveLinksMany(ctx context.Context, links []*domain.Link) error {
	pipe := s.client.Pipeline()

	for _, link := range links {
		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link %s: %w", link.ID, err)
		}

		pipe.Set(ctx, LinkKey(link.ID), data, 0)
		pipe.SAdd(ctx, UserLinksKey(link.UserID), link.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}
