// Command admin is the maintenance CLI: page cache, admin accounts, groups and live events.
package main

import (
	"context"
	"fmt"
	"os"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// runtime holds the dependencies opened by PersistentPreRunE.
type runtime struct {
	cfg    *config.Config
	db     *gorm.DB
	redis  *redis.Client
	users  *service.UserService
	groups *service.GroupService
}

var (
	rt = &runtime{}

	rootCmd = &cobra.Command{
		Use:               "admin",
		Short:             "Yatube maintenance commands",
		SilenceUsage:      true,
		PersistentPreRunE: openRuntime,
		PersistentPostRun: func(*cobra.Command, []string) { rt.close() },
	}
)

func init() {
	rootCmd.AddCommand(cacheCmd, usersCmd, groupsCmd, eventsCmd)
}

func openRuntime(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.db = db
	rt.redis = cache.InitRedis(cfg.RedisURL)
	rt.users = service.NewUserService(repository.NewUserRepository(db))
	rt.groups = service.NewGroupService(repository.NewGroupRepository(db))
	return nil
}

func (r *runtime) close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
	if r.db != nil {
		if sqlDB, err := r.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
