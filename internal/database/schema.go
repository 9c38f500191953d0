package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yatube/internal/config"
	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// Values of DB_SCHEMA_MODE.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan is what ApplySchema does for a given config.
type SchemaPlan struct {
	Mode        string
	Environment string
	// SQL runs the embedded migrations.
	SQL bool
	// Auto runs GORM AutoMigrate over PersistentModels after SQL.
	Auto bool
}

// SchemaStatus is a SchemaPlan plus the migration bookkeeping it would act on.
type SchemaStatus struct {
	SchemaPlan
	Applied []int
	Pending []Migration
}

// PlanSchema chooses how the schema is managed. Production and staging never
// auto-migrate. The embedded SQL targets PostgreSQL, so SQLite always
// auto-migrates and rejects the sql mode.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{
		Mode:        strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)),
		Environment: cfg.Env,
	}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	switch env := strings.ToLower(strings.TrimSpace(cfg.Env)); {
	case cfg.DBDriver == "sqlite" && plan.Mode == SchemaModeSQL:
		return plan, fmt.Errorf("DB_SCHEMA_MODE=sql needs postgres; sqlite is always auto-migrated")
	case cfg.DBDriver == "sqlite" && (plan.Mode == SchemaModeHybrid || plan.Mode == SchemaModeAuto):
		plan.Auto = true
	case plan.Mode == SchemaModeSQL:
		plan.SQL = true
	case plan.Mode == SchemaModeAuto && isSharedEnv(env):
		return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is refused in %q", cfg.Env)
	case plan.Mode == SchemaModeAuto:
		plan.Auto = true
	case plan.Mode == SchemaModeHybrid:
		plan.SQL = true
		plan.Auto = !isSharedEnv(env)
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

func isSharedEnv(env string) bool {
	switch env {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// ApplySchema brings the yatube tables up to date according to cfg.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.SQL {
		migrator, err := NewShippedMigrator(db)
		if err != nil {
			return err
		}
		ran, err := migrator.Up(ctx)
		if err != nil {
			return err
		}
		middleware.Logger.InfoContext(ctx, "SQL migrations up to date", slog.Int("applied_now", len(ran)))
	}

	if plan.Auto {
		middleware.Logger.InfoContext(ctx, "Auto-migrating yatube models",
			slog.String("mode", plan.Mode), slog.String("env", plan.Environment))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// InspectSchema reports the plan for cfg and, when it runs SQL, which
// migrations are recorded and which are still pending.
func InspectSchema(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{SchemaPlan: plan}
	if !plan.SQL {
		return status, nil
	}

	migrator, err := NewShippedMigrator(db)
	if err != nil {
		return nil, err
	}
	if status.Applied, err = migrator.Applied(ctx); err != nil {
		return nil, err
	}
	if status.Pending, err = migrator.Pending(ctx); err != nil {
		return nil, err
	}
	return status, nil
}
