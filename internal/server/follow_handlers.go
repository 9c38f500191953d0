package server

import (
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ProfileFollow handles GET|POST /profile/:username/follow/
// @Summary Follow an author
// @Description Repeating the request keeps a single subscription.
// @Tags follows
// @Produce json
// @Param username path string true "Author username"
// @Success 200 {object} object{author=models.User,following=bool,created=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/follow/ [post]
func (s *Server) ProfileFollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals(localsUserID).(uint)

	author, created, err := s.followService.Follow(ctx, userID, c.Params("username"))
	if err != nil {
		return models.Respond(c, err)
	}

	if created {
		if follower, err := s.userService.GetUserByID(ctx, userID); err == nil {
			s.publishFollowerAdded(author.ID, *follower)
		}
	}

	c.Location("/profile/" + author.Username + "/")
	return c.JSON(fiber.Map{
		"author":    author,
		"following": true,
		"created":   created,
	})
}

// ProfileUnfollow handles GET|POST /profile/:username/unfollow/
// @Summary Unfollow an author
// @Tags follows
// @Produce json
// @Param username path string true "Author username"
// @Success 200 {object} object{author=models.User,following=bool,removed=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/unfollow/ [post]
func (s *Server) ProfileUnfollow(c *fiber.Ctx) error {
	author, removed, err := s.followService.Unfollow(c.UserContext(), c.Locals(localsUserID).(uint), c.Params("username"))
	if err != nil {
		return models.Respond(c, err)
	}

	c.Location("/profile/" + author.Username + "/")
	return c.JSON(fiber.Map{
		"author":    author,
		"following": false,
		"removed":   removed,
	})
}
