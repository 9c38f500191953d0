package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"yatube/internal/models"
	"yatube/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yml
var builtInGroups []byte

// GroupFixture is one entry of a groups YAML file.
type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// ParseGroupFixtures decodes and validates a YAML list of groups.
func ParseGroupFixtures(data []byte) ([]GroupFixture, error) {
	var fixtures []GroupFixture
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("decode group fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(fixtures))
	for i, f := range fixtures {
		if strings.TrimSpace(f.Title) == "" {
			return nil, fmt.Errorf("group fixture %d: title is required", i)
		}
		if err := validation.ValidateSlug(f.Slug); err != nil {
			return nil, fmt.Errorf("group fixture %q: %w", f.Slug, err)
		}
		if _, dup := seen[f.Slug]; dup {
			return nil, fmt.Errorf("group fixture %q: duplicate slug", f.Slug)
		}
		seen[f.Slug] = struct{}{}
	}
	return fixtures, nil
}

// LoadGroupFixtures reads fixtures from path, or the built-in set when path is empty.
func LoadGroupFixtures(path string) ([]GroupFixture, error) {
	if path == "" {
		return ParseGroupFixtures(builtInGroups)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read group fixtures: %w", err)
	}
	return ParseGroupFixtures(data)
}

// Groups upserts fixtures by slug and returns the stored rows.
func Groups(db *gorm.DB, fixtures []GroupFixture) ([]models.Group, error) {
	groups := make([]models.Group, 0, len(fixtures))
	for _, f := range fixtures {
		group := models.Group{Title: f.Title, Slug: f.Slug, Description: f.Description}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error
		if err != nil {
			return nil, fmt.Errorf("seed group %s: %w", f.Slug, err)
		}
		if group.ID == 0 {
			if err := db.Where("slug = ?", f.Slug).First(&group).Error; err != nil {
				return nil, err
			}
		}
		groups = append(groups, group)
	}
	return groups, nil
}
