package seed

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestBuiltInGroupFixtures(t *testing.T) {
	fixtures, err := LoadGroupFixtures("")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)
	assert.Equal(t, "tolstoy", fixtures[0].Slug)
}

func TestParseGroupFixtures_Rejects(t *testing.T) {
	tests := map[string]string{
		"not yaml":       "{{",
		"missing title":  "- slug: cats\n",
		"bad slug":       "- title: Cats\n  slug: Not A Slug\n",
		"duplicate slug": "- title: A\n  slug: cats\n- title: B\n  slug: cats\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGroupFixtures([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadGroupFixtures_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yml")
	require.NoError(t, os.WriteFile(path, []byte("- title: Dogs\n  slug: dogs\n  description: Good dogs.\n"), 0o600))

	fixtures, err := LoadGroupFixtures(path)
	require.NoError(t, err)
	assert.Equal(t, []GroupFixture{{Title: "Dogs", Slug: "dogs", Description: "Good dogs."}}, fixtures)
}

func TestGroups_Upsert(t *testing.T) {
	db := setupTestDB(t)

	_, err := Groups(db, []GroupFixture{{Title: "Cats", Slug: "cats"}})
	require.NoError(t, err)
	groups, err := Groups(db, []GroupFixture{{Title: "Cats!", Slug: "cats", Description: "updated"}})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.NotZero(t, groups[0].ID)

	var stored []models.Group
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "Cats!", stored[0].Title)
	assert.Equal(t, "updated", stored[0].Description)
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	result, err := Seed(db, Options{
		NumUsers:       5,
		NumPosts:       20,
		NumComments:    10,
		FollowsPerUser: 2,
		SkipBcrypt:     true,
		RandSeed:       42,
	})
	require.NoError(t, err)

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, result.Users, count(&models.User{}))
	assert.EqualValues(t, 20, count(&models.Post{}))
	assert.EqualValues(t, 10, count(&models.Comment{}))
	assert.EqualValues(t, result.Follows, count(&models.Follow{}))
	assert.Positive(t, result.Groups)

	var selfFollows int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	require.NoError(t, ClearAll(db))
	assert.Zero(t, count(&models.Post{}))
	assert.Zero(t, count(&models.User{}))
}
