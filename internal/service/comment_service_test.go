package service

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id != 1 {
			return nil, models.NewNotFoundError("Post", id)
		}
		return &models.Post{ID: 1, AuthorID: 2}, nil
	}
	var stored *models.Comment
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 40
		stored = c
		return nil
	}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "ann"}, nil
	}
	svc := NewCommentService(posts, comments, users)
	ctx := context.Background()

	t.Run("adds", func(t *testing.T) {
		comment, err := svc.AddComment(ctx, AddCommentInput{PostID: 1, AuthorID: 3, Text: " nice "})
		require.NoError(t, err)
		assert.Equal(t, uint(40), comment.ID)
		assert.Equal(t, "nice", stored.Text)
		assert.False(t, stored.Created.IsZero())
		assert.Equal(t, "ann", comment.Author.Username)
	})

	t.Run("blank text", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{PostID: 1, AuthorID: 3, Text: "  "})
		appErr := assertAppErrorCode(t, err, models.CodeValidation)
		assert.Equal(t, msgRequired, appErr.Fields["text"])
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, AddCommentInput{PostID: 9, AuthorID: 3, Text: "hi"})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}
