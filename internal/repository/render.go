package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRenderNotCached = errors.New("render not cached")

// RenderCacheRepository stores the textual rendering of board states. A
// state renders to the same text every time, so entries carry a TTL only to
// bound memory, not for correctness.
type RenderCacheRepository interface {
	Get(ctx context.Context, state string) (string, error)
	Set(ctx context.Context, state, text string) error
}

type dbRenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRenderCacheRepository(client *redis.Client, ttl time.Duration) RenderCacheRepository {
	return &dbRenderCache{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbRenderCache) Get(ctx context.Context, state string) (string, error) {
	text, err := that.client.Get(ctx, renderKey(state)).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrRenderNotCached
	}

	if err != nil {
		return "", fmt.Errorf("failed to get cached render: %w", err)
	}

	return text, nil
}

func (that *dbRenderCache) Set(ctx context.Context, state, text string) error {
	if err := that.client.Set(ctx, renderKey(state), text, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache render: %w", err)
	}

	return nil
}

func renderKey(state string) string {
	return "render:" + state
}
