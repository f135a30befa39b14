package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	GroupKeyPrefix  = "group:"
	DefaultGroupTTL = 10 * time.Minute
)

// GroupCache keeps groups looked up by slug. A nil *GroupCache, or one without a client, reads through.
type GroupCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGroupCache(client *redis.Client, ttl time.Duration) *GroupCache {
	if ttl <= 0 {
		ttl = DefaultGroupTTL
	}
	return &GroupCache{client: client, ttl: ttl}
}

func GroupKey(slug string) string {
	return GroupKeyPrefix + slug
}

func (g *GroupCache) Enabled() bool {
	return g != nil && g.client != nil
}

// BySlug returns the cached group for slug, or calls load on a miss and stores what it returns.
// Load errors, including not-found, are passed through and never cached. A Redis failure falls
// back to load.
func (g *GroupCache) BySlug(ctx context.Context, slug string, load func() (*models.Group, error)) (*models.Group, error) {
	if !g.Enabled() {
		return load()
	}

	key := GroupKey(slug)
	raw, err := g.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var group models.Group
		if json.Unmarshal(raw, &group) == nil {
			return &group, nil
		}
	case !errors.Is(err, redis.Nil):
		return load()
	}

	group, err := load()
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(group); err == nil {
		if err := g.client.Set(ctx, key, b, g.ttl).Err(); err != nil {
			middleware.Logger.WarnContext(ctx, "group cache store failed",
				slog.String("slug", slug), slog.String("error", err.Error()))
		}
	}
	return group, nil
}

// Invalidate drops the cached group for slug.
func (g *GroupCache) Invalidate(ctx context.Context, slug string) {
	if !g.Enabled() {
		return
	}
	if err := g.client.Del(ctx, GroupKey(slug)).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "group cache invalidation failed",
			slog.String("slug", slug), slog.String("error", err.Error()))
	}
}
