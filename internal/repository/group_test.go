package repository

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Alpha", Slug: "alpha"}))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Beta", Slug: "beta"}))

	err := repo.Create(ctx, &models.Group{Title: "Again", Slug: "alpha"})
	assert.True(t, models.HasCode(err, models.CodeConflict))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Beta", groups[0].Title)

	found, err := repo.GetBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", found.Title)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestGroupRepository_DeleteDetachesPosts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "leo")
	group := createGroup(t, db, "cats")
	post := createPost(t, db, author, group, "meow", time.Now())

	require.NoError(t, repo.Delete(ctx, "cats"))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Nil(t, stored.GroupID)

	err := repo.Delete(ctx, "cats")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
