// Command migrate applies, inspects and rolls back schema migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"yatube/internal/config"
	"yatube/internal/database"

	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|auto|status|down> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if cmd == "auto" {
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto-migrate yatube models: %w", err)
		}
		log.Println("yatube models auto-migrated")
		return nil
	}

	migrator, err := database.NewShippedMigrator(db)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		ran, err := migrator.Up(ctx)
		if err != nil {
			return err
		}
		if len(ran) == 0 {
			log.Println("yatube schema already current")
		}
		for _, m := range ran {
			log.Printf("applied %s", m)
		}
	case "status":
		return printStatus(ctx, db, cfg)
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := migrator.Down(ctx, version); err != nil {
			return err
		}
		log.Printf("reverted migration %06d", version)
	default:
		return usage()
	}

	return nil
}

// printStatus lists every shipped migration with its state in this database.
func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	status, err := database.InspectSchema(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("inspect schema: %w", err)
	}
	fmt.Printf("schema mode %s (env %s): sql=%t auto=%t\n",
		status.Mode, status.Environment, status.SQL, status.Auto)
	if !status.SQL {
		return nil
	}

	all, err := database.Migrations()
	if err != nil {
		return err
	}
	pending := make(map[int]bool, len(status.Pending))
	for _, m := range status.Pending {
		pending[m.Version] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATE")
	for _, m := range all {
		state := "applied"
		if pending[m.Version] {
			state = "pending"
		}
		fmt.Fprintf(w, "%06d\t%s\t%s\n", m.Version, m.Name, state)
	}
	return w.Flush()
}
