package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// appliedMigration is a row of the bookkeeping table.
type appliedMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"size:255;not null"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string {
	return "yatube_schema_versions"
}

// Migrator applies SQL migrations and records them in yatube_schema_versions.
type Migrator struct {
	db  *gorm.DB
	set []Migration
}

// NewMigrator returns a migrator for set, which must be sorted by version.
func NewMigrator(db *gorm.DB, set []Migration) *Migrator {
	return &Migrator{db: db, set: set}
}

// NewShippedMigrator returns a migrator for the migrations built into the binary.
func NewShippedMigrator(db *gorm.DB) (*Migrator, error) {
	set, err := Migrations()
	if err != nil {
		return nil, err
	}
	return NewMigrator(db, set), nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("create %s: %w", appliedMigration{}.TableName(), err)
	}
	return nil
}

// Applied returns the recorded versions in ascending order.
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	var versions []int
	if err := m.db.WithContext(ctx).Model(&appliedMigration{}).
		Order("version").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

// Pending returns the migrations not yet applied, oldest first. It fails when
// the database records a version this binary does not know, which means it
// was migrated by a newer release.
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkKnownVersions(applied, m.set); err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.set {
		if _, done := slices.BinarySearch(applied, mig.Version); !done {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the ones it ran.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	for i, mig := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return err
			}
			return tx.Create(&appliedMigration{Version: mig.Version, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return pending[:i], fmt.Errorf("apply migration %s: %w", mig, err)
		}
		middleware.Logger.InfoContext(ctx, "schema migration applied", slog.String("migration", mig.String()))
	}
	return pending, nil
}

// Down reverts version, which must be the newest applied migration.
func (m *Migrator) Down(ctx context.Context, version int) error {
	mig, ok := findMigration(m.set, version)
	if !ok {
		return fmt.Errorf("unknown migration version %d", version)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 || applied[len(applied)-1] != version {
		return fmt.Errorf("migration %s is not the newest applied version", mig)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return err
		}
		return tx.Delete(&appliedMigration{}, "version = ?", version).Error
	})
	if err != nil {
		return fmt.Errorf("revert migration %s: %w", mig, err)
	}
	middleware.Logger.InfoContext(ctx, "schema migration reverted", slog.String("migration", mig.String()))
	return nil
}

func checkKnownVersions(applied []int, set []Migration) error {
	var unknown []string
	for _, version := range applied {
		if _, ok := findMigration(set, version); !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("database has migrations this build does not ship: %s", strings.Join(unknown, ", "))
	}
	return nil
}
