package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"celestial-server/internal/entity"
	"celestial-server/internal/shared/redis"
)

// ViewCache stores rendered views. Bodies never change after creation,
// so entries only expire and are never invalidated.
type ViewCache interface {
	Get(ctx context.Context, h entity.Handle) (*View, bool)
	Set(ctx context.Context, view *View)
}

type noCache struct{}

func (noCache) Get(context.Context, entity.Handle) (*View, bool) { return nil, false }
func (noCache) Set(context.Context, *View)                       {}

type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisViewCache falls back to no caching when client is nil.
func NewRedisViewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ViewCache {
	if client == nil {
		return noCache{}
	}
	return &RedisViewCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "catalog_cache"),
	}
}

func viewKey(h entity.Handle) string {
	return fmt.Sprintf("celestial:body:%d", uint64(h))
}

func (c *RedisViewCache) Get(ctx context.Context, h entity.Handle) (*View, bool) {
	data, ok, err := c.client.GetBytes(ctx, viewKey(h))
	if err != nil {
		c.logger.Warn("Failed to read cached view", "handle", h.String(), "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var view View
	if err := json.Unmarshal(data, &view); err != nil {
		c.logger.Warn("Discarding undecodable cached view", "handle", h.String(), "error", err)
		return nil, false
	}
	return &view, true
}

func (c *RedisViewCache) Set(ctx context.Context, view *View) {
	data, err := json.Marshal(view)
	if err != nil {
		c.logger.Warn("Failed to encode view for cache", "handle", view.Handle.String(), "error", err)
		return
	}
	if err := c.client.SetBytes(ctx, viewKey(view.Handle), data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache view", "handle", view.Handle.String(), "error", err)
	}
}
