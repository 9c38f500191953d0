package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService manages follow edges between users.
// Following yourself is allowed.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// FollowCounts summarizes a user's follow graph.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow makes followerID follow username. It is idempotent: created reports
// whether a new edge was stored.
func (s *FollowService) Follow(ctx context.Context, followerID uint, username string) (author *models.User, created bool, err error) {
	author, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	if err := s.follows.Create(ctx, followerID, author.ID); err != nil {
		// The unique index already holds this edge.
		if models.HasCode(err, models.CodeConflict) {
			return author, false, nil
		}
		return nil, false, err
	}
	observability.FollowChanges.WithLabelValues("follow").Inc()
	return author, true, nil
}

// Unfollow removes the edge if present. Absence is not an error.
func (s *FollowService) Unfollow(ctx context.Context, followerID uint, username string) (author *models.User, removed bool, err error) {
	author, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	removed, err = s.follows.Delete(ctx, followerID, author.ID)
	if err != nil {
		return nil, false, err
	}
	if removed {
		observability.FollowChanges.WithLabelValues("unfollow").Inc()
	}
	return author, removed, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	return s.follows.Exists(ctx, followerID, authorID)
}

func (s *FollowService) Counts(ctx context.Context, userID uint) (FollowCounts, error) {
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	return FollowCounts{Followers: followers, Following: following}, nil
}
