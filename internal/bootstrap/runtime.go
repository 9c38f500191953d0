// Package bootstrap prepares the database and Redis shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/seed"
	"yatube/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedGroups upserts the group fixtures on start.
	SeedGroups bool
}

// InitRuntime connects to the database and Redis and applies the start-up fixtures.
// The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if err := Prepare(ctx, cfg, db, opts); err != nil {
		return nil, nil, err
	}
	return db, rdb, nil
}

// Prepare applies the development root admin and group fixtures to an open database.
func Prepare(ctx context.Context, cfg *config.Config, db *gorm.DB, opts Options) error {
	if err := ensureDevRootAdmin(ctx, cfg, db); err != nil {
		return fmt.Errorf("failed to bootstrap development root admin: %w", err)
	}

	if opts.SeedGroups {
		fixtures, err := seed.LoadGroupFixtures(cfg.GroupFixtures)
		if err != nil {
			return err
		}
		groups, err := seed.Groups(db.WithContext(ctx), fixtures)
		if err != nil {
			return fmt.Errorf("failed to seed groups: %w", err)
		}
		middleware.Logger.Info("group fixtures ensured", slog.Int("count", len(groups)))
	}
	return nil
}

func ensureDevRootAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapRoot {
		return nil
	}

	username := strings.TrimSpace(cfg.DevRootUsername)
	if username == "" {
		username = "yatube_root"
	}
	if cfg.DevRootPassword == "" {
		return fmt.Errorf("DEV_ROOT_PASSWORD must be set when DEV_BOOTSTRAP_ROOT is enabled")
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	if _, err := users.EnsureAdmin(ctx, username, cfg.DevRootPassword); err != nil {
		return err
	}
	middleware.Logger.Info("development root admin ensured", slog.String("username", username))
	return nil
}
