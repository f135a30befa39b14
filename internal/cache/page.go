package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageKeyPrefix namespaces full-page response entries.
const PageKeyPrefix = "page:"

const clearBatch = 500

// PageCache stores rendered page bodies keyed by route and query string.
// A nil client disables it: lookups miss and writes and clears are no-ops.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache returns a page cache backed by client with the given entry lifetime.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

// PageKey builds the cache key for a path and raw query string.
func PageKey(path, query string) string {
	if query == "" {
		return PageKeyPrefix + path
	}
	return PageKeyPrefix + path + "?" + query
}

// Key returns the cache key for a request path and raw query string.
func (p *PageCache) Key(path, query string) string {
	return PageKey(path, query)
}

// Enabled reports whether the cache has a backing store.
func (p *PageCache) Enabled() bool {
	return p != nil && p.client != nil && p.ttl > 0
}

// Get returns the cached body for key.
func (p *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !p.Enabled() {
		return nil, false, nil
	}
	body, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set stores body under key for the cache TTL.
func (p *PageCache) Set(ctx context.Context, key string, body []byte) error {
	if !p.Enabled() {
		return nil
	}
	return p.client.Set(ctx, key, body, p.ttl).Err()
}

// Clear removes every cached page. Entries are not scoped per post, so any post
// mutation has to drop them all.
func (p *PageCache) Clear(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := p.client.Scan(ctx, cursor, PageKeyPrefix+"*", clearBatch).Result()
		if err != nil {
			return fmt.Errorf("scan page cache: %w", err)
		}
		if len(keys) > 0 {
			if err := p.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete page cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
