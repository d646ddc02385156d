package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"mytube/domain/model"
	"mytube/infrastructure/logger"
)

// NewCache connects a Redis client and verifies it with a ping.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// PreferenceStore keeps per-user lists as JSON blobs in Redis, one key per
// (user, list kind). Writes replace the whole value, matching the
// localStorage semantics the frontend relied on.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (s *PreferenceStore) LoadList(ctx context.Context, key model.StorageKey) ([]model.Video, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("invalid storage key %q", key.String())
	}
	if s.client == nil {
		return []model.Video{}, nil
	}
	raw, err := s.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.Video{}, nil
	}
	if err != nil {
		return nil, err
	}
	var videos []model.Video
	if err := json.Unmarshal(raw, &videos); err != nil {
		logger.GetLogger().WithField("key", key.String()).WithField("error", err).Warn("corrupt preference list, treating as empty")
		return []model.Video{}, nil
	}
	return videos, nil
}

func (s *PreferenceStore) SaveList(ctx context.Context, key model.StorageKey, videos []model.Video) error {
	if !key.Valid() {
		return fmt.Errorf("invalid storage key %q", key.String())
	}
	if s.client == nil {
		return nil
	}
	raw, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key.String(), raw, 0).Err()
}
