package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/stash/internal/domain"
)

// CreateUser stores a new user. The email index is claimed with SETNX so two
// concurrent registrations of the same address cannot both succeed.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, UserEmailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %w", err)
	}
	if !claimed {
		return fmt.Errorf("%w: user %s", domain.ErrConflict, user.Email)
	}

	if err := s.client.Set(ctx, UserKey(user.ID), data, 0).Err(); err != nil {
		// Release the email so the user can retry.
		_ = s.client.Del(ctx, UserEmailKey(user.Email)).Err()
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.getJSON(ctx, UserKey(id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail resolves the email index, then loads the user.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.client.Get(ctx, UserEmailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	return s.GetUser(ctx, id)
}
