// Package cache holds the Redis-backed caches: rendered pages and group lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// errorCounter feeds failed commands into middleware.RedisErrors. A miss (redis.Nil) is not a failure.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countFailure(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countFailure("pipeline", err)
		return err
	}
}

func countFailure(command string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(command).Inc()
	}
}

// Connect opens a client for addr, given as host:port or a redis:// URL, and checks it answers.
// It returns nil when addr is unusable or the server is down; the page and group caches
// then read through and token revocation is skipped.
func Connect(ctx context.Context, addr string) *redis.Client {
	opts, err := clientOptions(addr)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "redis disabled", slog.String("error", err.Error()))
		return nil
	}

	rdb := redis.NewClient(opts)
	rdb.AddHook(errorCounter{})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "redis unreachable, running without cache",
			slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}

	middleware.Logger.InfoContext(ctx, "redis connected", slog.String("addr", opts.Addr), slog.Int("db", opts.DB))
	return rdb
}

func clientOptions(addr string) (*redis.Options, error) {
	addr = strings.TrimSpace(addr)
	switch {
	case addr == "":
		return nil, errors.New("REDIS_URL is empty")
	case !strings.Contains(addr, "://"):
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL %q: %w", addr, err)
	}
	return opts, nil
}
