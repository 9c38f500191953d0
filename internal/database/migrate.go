package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Migration is one versioned schema change, stored as NNNNNN_name.up.sql with
// a matching NNNNNN_name.down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var shippedMigrations = sync.OnceValues(func() ([]Migration, error) {
	return LoadMigrations(embeddedMigrations, "migrations")
})

// Migrations returns the schema changes built into the binary, oldest first.
func Migrations() ([]Migration, error) {
	return shippedMigrations()
}

// LoadMigrations reads every up/down pair under dir. Badly named files and
// up scripts without a down script are errors, not skipped.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var set []Migration
	seen := make(map[int]string)
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(file, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(file, ".up.sql")
		digits, name, ok := strings.Cut(base, "_")
		if !ok || name == "" {
			return nil, fmt.Errorf("migration %s: want NNNNNN_name.up.sql", file)
		}
		version, err := strconv.Atoi(digits)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: version %q is not a positive number", file, digits)
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migration %s: version %d already used by %s", file, version, prev)
		}
		seen[version] = file

		up, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		down, err := fs.ReadFile(fsys, path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %s has no down script: %w", base, err)
		}

		set = append(set, Migration{Version: version, Name: name, Up: string(up), Down: string(down)})
	}

	slices.SortFunc(set, func(a, b Migration) int { return a.Version - b.Version })
	return set, nil
}

func findMigration(set []Migration, version int) (Migration, bool) {
	i, ok := slices.BinarySearchFunc(set, version, func(m Migration, v int) int { return m.Version - v })
	if !ok {
		return Migration{}, false
	}
	return set[i], true
}
