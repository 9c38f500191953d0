package server

import (
	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ClearCache handles POST /admin/cache/clear/
// @Summary Clear the home page cache
// @Tags admin
// @Produce json
// @Success 200 {object} object{cleared=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/cache/clear/ [post]
func (s *Server) ClearCache(c *fiber.Ctx) error {
	if err := s.pageCache.Clear(c.UserContext()); err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"cleared": cache.IndexCacheName})
}

// CreateGroup handles POST /admin/groups/
// @Summary Create a group
// @Tags admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Group
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/groups/ [post]
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title" form:"title"`
		Slug        string `json:"slug" form:"slug"`
		Description string `json:"description" form:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.UserContext(), service.CreateGroupInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// DeleteGroup handles DELETE /admin/groups/:slug/
// Posts of the group stay and lose their group.
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	if err := s.groupService.DeleteGroup(c.UserContext(), c.Params("slug")); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
