// Package bootstrap wires the process-wide dependencies a command needs before serving.
package bootstrap

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedGroups bool
}

// InitRuntime connects to the database, the optional read replica and Redis, and optionally
// seeds the built-in groups. A nil Redis client means the app runs without the page cache.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	database.ConnectReadReplica(cfg)

	r := cache.Connect(context.Background(), cfg.RedisURL)

	if opts.SeedGroups {
		if err := seed.Groups(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in groups: %w", err)
		}
	}

	return db, r, nil
}
