// Package service holds the application's business rules on top of the repositories.
package service

import (
	"context"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// Feed view names, also used as metric labels.
const (
	ViewIndex   = "index"
	ViewGroup   = "group"
	ViewProfile = "profile"
	ViewFollow  = "follow"
)

// FeedService builds the paginated post listings.
type FeedService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	users    repository.UserRepository
	pageSize int
}

// GroupFeed is a group with one page of its posts.
type GroupFeed struct {
	Group *models.Group                 `json:"group"`
	Page  pagination.Page[models.Post] `json:"page"`
}

// AuthorFeed is an author with one page of their posts.
type AuthorFeed struct {
	Author     *models.User                 `json:"author"`
	PostsCount int64                        `json:"posts_count"`
	Page       pagination.Page[models.Post] `json:"page"`
}

func NewFeedService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	pageSize int,
) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultSize
	}
	return &FeedService{posts: posts, groups: groups, users: users, pageSize: pageSize}
}

// PageSize returns the number of posts per page shared by every feed.
func (s *FeedService) PageSize() int {
	return s.pageSize
}

// ListAll returns a page of every post, newest first.
func (s *FeedService) ListAll(ctx context.Context, page int) (pagination.Page[models.Post], error) {
	return s.list(ctx, ViewIndex, repository.PostFilter{}, page)
}

func (s *FeedService) ListByGroup(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.list(ctx, ViewGroup, repository.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: posts}, nil
}

func (s *FeedService) ListByAuthor(ctx context.Context, username string, page int) (*AuthorFeed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.list(ctx, ViewProfile, repository.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}
	return &AuthorFeed{Author: author, PostsCount: posts.TotalItems, Page: posts}, nil
}

// ListFollowed returns posts by every author userID follows.
func (s *FeedService) ListFollowed(ctx context.Context, userID uint, page int) (pagination.Page[models.Post], error) {
	return s.list(ctx, ViewFollow, repository.PostFilter{FollowerID: &userID}, page)
}

func (s *FeedService) list(ctx context.Context, view string, filter repository.PostFilter, page int) (pagination.Page[models.Post], error) {
	start := time.Now()
	defer func() {
		observability.FeedQueryLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
	}()

	page = pagination.Normalize(page)
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return pagination.Page[models.Post]{}, err
	}

	var items []models.Post
	if !pagination.Beyond(page, s.pageSize, total) {
		items, err = s.posts.List(ctx, filter, s.pageSize, pagination.Offset(page, s.pageSize))
		if err != nil {
			return pagination.Page[models.Post]{}, err
		}
	}
	return pagination.New(items, page, s.pageSize, total), nil
}
