package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/media"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

const (
	msgRequired     = "This field is required."
	msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
)

type PostService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	images   media.ImageStore
	now      func() time.Time
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *media.Upload
}

type EditPostInput struct {
	PostID   uint
	EditorID uint
	Text     string
	GroupID  *uint
	// Image replaces the current image when set; nil keeps it.
	Image *media.Upload
}

// PostForm is the data behind the create and edit forms.
type PostForm struct {
	Post   *models.Post   `json:"post,omitempty"`
	Groups []models.Group `json:"groups"`
	IsEdit bool           `json:"is_edit"`
}

// PostDetail is a single post with its discussion.
type PostDetail struct {
	Post             *models.Post     `json:"post"`
	Comments         []models.Comment `json:"comments"`
	CommentsCount    int64            `json:"comments_count"`
	AuthorPostsCount int64            `json:"author_posts_count"`
}

func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	images media.ImageStore,
) *PostService {
	return &PostService{
		posts:    posts,
		groups:   groups,
		comments: comments,
		images:   images,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}
	image, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		PubDate:  s.now(),
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)), slog.Uint64("author_id", uint64(post.AuthorID)))
	return s.posts.GetByID(ctx, post.ID)
}

// EditPost changes text, group and image. Only the author may edit; pub_date never moves.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	text, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}
	if in.Image != nil {
		image, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = image
	}

	post.Text = text
	post.GroupID = in.GroupID
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, post.ID)
}

// NewPostForm returns the empty create form.
func (s *PostService) NewPostForm(ctx context.Context) (*PostForm, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PostForm{Groups: groups}, nil
}

func (s *PostService) GetPostForEdit(ctx context.Context, postID, editorID uint) (*PostForm, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != editorID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PostForm{Post: post, Groups: groups, IsEdit: true}, nil
}

func (s *PostService) GetPostDetail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	authorPosts, err := s.posts.Count(ctx, repository.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:             post,
		Comments:         comments,
		CommentsCount:    int64(len(comments)),
		AuthorPostsCount: authorPosts,
	}, nil
}

// DeletePost removes a post and its comments. Authors and admins only.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint, isAdmin bool) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !isAdmin {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	return s.posts.Delete(ctx, postID)
}

// validate checks text and group and returns the trimmed text.
func (s *PostService) validate(ctx context.Context, text string, groupID *uint) (string, error) {
	fields := map[string]string{}

	text = strings.TrimSpace(text)
	if text == "" {
		fields["text"] = msgRequired
	}
	if groupID != nil {
		if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
			if !models.HasCode(err, models.CodeNotFound) {
				return "", err
			}
			fields["group"] = msgInvalidGroup
		}
	}

	if len(fields) > 0 {
		return "", models.NewFieldsValidationError(fields)
	}
	return text, nil
}

func (s *PostService) saveImage(ctx context.Context, upload *media.Upload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", nil
	}
	if s.images == nil {
		return "", models.NewFieldValidationError("image", "Image uploads are disabled")
	}
	rel, err := s.images.Save(ctx, *upload)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) || errors.Is(err, media.ErrTooLarge) ||
			errors.Is(err, media.ErrTypeMismatch) || errors.Is(err, media.ErrEmptyUpload) {
			return "", models.NewFieldValidationError("image", err.Error())
		}
		return "", models.NewInternalError(err)
	}
	return rel, nil
}
