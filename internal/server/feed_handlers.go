package server

import (
	"context"
	"encoding/json"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET /
// @Summary Home feed
// @Description All posts, newest first. Each page is cached for INDEX_CACHE_TTL seconds.
// @Tags feeds
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} object{page_obj=pagination.Page[models.Post]}
// @Router / [get]
func (s *Server) Index(c *fiber.Ctx) error {
	page := pageParam(c)

	body, err := s.pageCache.Aside(c.UserContext(), cache.IndexPageKey(page), func(ctx context.Context) ([]byte, error) {
		posts, err := s.feedService.ListAll(ctx, page)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(fiber.Map{"page_obj": posts})
		if err == nil && posts.Number > 1 && pagination.Beyond(posts.Number, posts.Size, posts.TotalItems) {
			// Pages past the end are client-chosen keys; serve them uncached.
			return body, cache.ErrSkipStore
		}
		return body, err
	})
	if err != nil {
		return models.Respond(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// GroupPosts handles GET /group/:slug/
// @Summary Group feed
// @Tags feeds
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} object{group=models.Group,page_obj=pagination.Page[models.Post]}
// @Failure 404 {object} models.ErrorResponse
// @Router /group/{slug}/ [get]
func (s *Server) GroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.ListByGroup(c.UserContext(), c.Params("slug"), pageParam(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{
		"group":    feed.Group,
		"page_obj": feed.Page,
	})
}

// Profile handles GET /profile/:username/
// @Summary Author profile
// @Tags feeds
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} object{author=models.User,posts_count=int,following=bool,page_obj=pagination.Page[models.Post]}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/ [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	feed, err := s.feedService.ListByAuthor(ctx, c.Params("username"), pageParam(c))
	if err != nil {
		return models.Respond(c, err)
	}

	following := false
	if viewerID, ok := s.currentUserID(c); ok {
		following, err = s.followService.IsFollowing(ctx, viewerID, feed.Author.ID)
		if err != nil {
			return models.Respond(c, err)
		}
	}
	counts, err := s.followService.Counts(ctx, feed.Author.ID)
	if err != nil {
		return models.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"author":          feed.Author,
		"posts_count":     feed.PostsCount,
		"followers_count": counts.Followers,
		"following_count": counts.Following,
		"following":       following,
		"page_obj":        feed.Page,
	})
}

// FollowIndex handles GET /follow/
// @Summary Followed authors feed
// @Tags feeds
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} object{page_obj=pagination.Page[models.Post]}
// @Failure 302 "Redirect to login"
// @Router /follow/ [get]
func (s *Server) FollowIndex(c *fiber.Ctx) error {
	userID := c.Locals(localsUserID).(uint)
	posts, err := s.feedService.ListFollowed(c.UserContext(), userID, pageParam(c))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(fiber.Map{"page_obj": posts})
}

// ListGroups handles GET /groups/
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups/ [get]
func (s *Server) ListGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(groups)
}
