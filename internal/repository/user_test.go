package repository

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "leo", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "leo", Password: "y"})
	assert.True(t, models.HasCode(err, models.CodeConflict))
}

func TestUserRepository_Lookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := createUser(t, db, "leo")

	byName, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, leo.ID, byName.ID)

	byID, err := repo.GetByID(ctx, leo.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", byID.Username)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_Admins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := createUser(t, db, "leo")
	createUser(t, db, "ann")

	require.NoError(t, repo.SetAdmin(ctx, leo.ID, true))
	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "leo", admins[0].Username)

	require.NoError(t, repo.SetAdmin(ctx, leo.ID, false))
	admins, err = repo.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Empty(t, admins)

	err = repo.SetAdmin(ctx, 999, true)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	leo := createUser(t, db, "leo")
	ann := createUser(t, db, "ann")
	leoPost := createPost(t, db, leo, nil, "leo", time.Now())
	annPost := createPost(t, db, ann, nil, "ann", time.Now())
	require.NoError(t, db.Create(&models.Comment{PostID: leoPost.ID, AuthorID: ann.ID, Text: "on leo"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: annPost.ID, AuthorID: leo.ID, Text: "by leo"}).Error)
	require.NoError(t, db.Create(&models.Follow{UserID: ann.ID, AuthorID: leo.ID}).Error)

	require.NoError(t, repo.Delete(ctx, leo.ID))

	var posts, comments, follows int64
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	db.Model(&models.Follow{}).Count(&follows)
	assert.Equal(t, int64(1), posts)
	assert.Zero(t, comments)
	assert.Zero(t, follows)

	err := repo.Delete(ctx, leo.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
