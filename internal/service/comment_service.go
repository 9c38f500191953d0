package service

import (
	"context"
	"strings"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
)

type CommentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	now      func() time.Time
}

type AddCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

func NewCommentService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		users:    users,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewFieldValidationError("text", msgRequired)
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: in.AuthorID,
		Text:     text,
		Created:  s.now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if author, err := s.users.GetByID(ctx, in.AuthorID); err == nil {
		comment.Author = *author
	}
	comment.Post = post
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}
