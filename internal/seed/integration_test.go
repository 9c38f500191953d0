//go:build integration

package seed

import (
	"os"
	"testing"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_SeedPostgres(t *testing.T) {
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set; skipping integration seed test")
	}
	cfg := &config.Config{
		Env:          "test",
		DBHost:       os.Getenv("DB_HOST"),
		DBPort:       os.Getenv("DB_PORT"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBSSLMode:    "disable",
		DBSchemaMode: database.SchemaModeHybrid,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)

	_, err = Seed(db, Options{NumUsers: 10, NumPosts: 50, NumComments: 20, FollowsPerUser: 3, ShouldClean: true, SkipBcrypt: true})
	require.NoError(t, err)

	var cnt int64
	require.NoError(t, db.Model(&models.Post{}).Count(&cnt).Error)
	assert.EqualValues(t, 50, cnt)
}
