package server

import (
	"context"
	"time"

	"yatube/internal/models"
	"yatube/internal/notifications"
)

func userSummary(user models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	}
}

// Events are published with a detached context so a finished request does not cancel them.
func (s *Server) publishPostCreated(post *models.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.notifier.EmitBroadcast(ctx, notifications.EventPostCreated, map[string]interface{}{
		"post_id":   post.ID,
		"author":    userSummary(post.Author),
		"group_id":  post.GroupID,
		"pub_date":  post.PubDate.UTC().Format(time.RFC3339Nano),
		"text_head": post.String(),
	})
}

func (s *Server) publishFollowerAdded(authorID uint, follower models.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.notifier.EmitUser(ctx, authorID, notifications.EventFollowerAdded, map[string]interface{}{
		"follower": userSummary(follower),
	})
}

func (s *Server) publishCommentAdded(post *models.Post, comment *models.Comment) {
	if post == nil || post.AuthorID == comment.AuthorID {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.notifier.EmitUser(ctx, post.AuthorID, notifications.EventCommentAdded, map[string]interface{}{
		"post_id":    post.ID,
		"comment_id": comment.ID,
		"author":     userSummary(comment.Author),
	})
}
