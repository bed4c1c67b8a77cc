package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// SaveFolder creates or replaces a folder along with its slug index.
func (s *Store) SaveFolder(ctx context.Context, folder *domain.Folder) error {
	stored := *folder
	stored.LinkCount = 0

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal folder: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, FolderKey(folder.ID), data, 0)
	pipe.SAdd(ctx, UserFoldersKey(folder.UserID), folder.ID)
	pipe.Set(ctx, FolderSlugKey(folder.Slug), folder.ID, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save folder: %w", err)
	}
	return nil
}

// GetFolder retrieves a folder by ID
func (s *Store) GetFolder(ctx context.Context, id string) (*domain.Folder, error) {
	var folder domain.Folder
	if err := s.getJSON(ctx, FolderKey(id), &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// GetFolderBySlug resolves a share slug.
func (s *Store) GetFolderBySlug(ctx context.Context, slug string) (*domain.Folder, error) {
	id, err := s.client.Get(ctx, FolderSlugKey(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: folder slug %s", domain.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to look up slug: %w", err)
	}
	return s.GetFolder(ctx, id)
}

// ListFoldersByUser returns every folder a user owns, in no particular order.
func (s *Store) ListFoldersByUser(ctx context.Context, userID string) ([]*domain.Folder, error) {
	ids, err := s.client.SMembers(ctx, UserFoldersKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get folder IDs: %w", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = FolderKey(id)
	}
	return getMany[domain.Folder](ctx, s, keys)
}

// DeleteFolder removes a folder and its index entries. Links are untouched.
func (s *Store) DeleteFolder(ctx context.Context, folder *domain.Folder) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, FolderKey(folder.ID))
	pipe.SRem(ctx, UserFoldersKey(folder.UserID), folder.ID)
	pipe.Del(ctx, FolderSlugKey(folder.Slug))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	return nil
}
