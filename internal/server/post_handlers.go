package server

import (
	"io"

	"yatube/internal/media"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the decoded body of the create and edit forms.
type postRequest struct {
	Text    string
	GroupID *uint
	Image   *media.Upload
}

// parsePostRequest accepts JSON ({"text", "group"}) or a form with an optional image file.
func parsePostRequest(c *fiber.Ctx) (*postRequest, error) {
	if isJSONRequest(c) {
		var body struct {
			Text  string `json:"text"`
			Group *uint  `json:"group"`
		}
		if err := c.BodyParser(&body); err != nil {
			return nil, models.NewValidationError("Invalid request body")
		}
		return &postRequest{Text: body.Text, GroupID: body.Group}, nil
	}

	groupID, err := parseGroupID(c.FormValue("group"))
	if err != nil {
		return nil, err
	}
	req := &postRequest{Text: c.FormValue("text"), GroupID: groupID}

	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return req, nil
	}
	f, err := file.Open()
	if err != nil {
		return nil, models.NewFieldValidationError("image", "The submitted file is empty.")
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(data) > 0 {
		req.Image = &media.Upload{
			Filename:    file.Filename,
			ContentType: file.Header.Get(fiber.HeaderContentType),
			Data:        data,
		}
	}
	return req, nil
}

// PostDetail handles GET /posts/:id/
// @Summary Post detail
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [get]
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.postService.GetPostDetail(c.UserContext(), id)
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(detail)
}

// PostCreateForm handles GET /create/
func (s *Server) PostCreateForm(c *fiber.Ctx) error {
	form, err := s.postService.NewPostForm(c.UserContext())
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(form)
}

// PostCreate handles POST /create/
// @Summary Create post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param text formData string true "Post text"
// @Param group formData int false "Group ID"
// @Param image formData file false "Image"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /create/ [post]
func (s *Server) PostCreate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals(localsUserID).(uint)

	req, err := parsePostRequest(c)
	if err != nil {
		return models.Respond(c, err)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID: userID,
		Text:     req.Text,
		GroupID:  req.GroupID,
		Image:    req.Image,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	s.publishPostCreated(post)
	c.Location("/profile/" + post.Author.Username + "/")
	return c.Status(fiber.StatusCreated).JSON(post)
}

// PostEditForm handles GET /posts/:id/edit/
func (s *Server) PostEditForm(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	form, err := s.postService.GetPostForEdit(c.UserContext(), id, c.Locals(localsUserID).(uint))
	if err != nil {
		return models.Respond(c, err)
	}
	return c.JSON(form)
}

// PostEdit handles POST /posts/:id/edit/
// @Summary Edit post
// @Description Only the author may edit. The publication date never changes.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /posts/{id}/edit/ [post]
func (s *Server) PostEdit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	req, err := parsePostRequest(c)
	if err != nil {
		return models.Respond(c, err)
	}

	post, err := s.postService.EditPost(c.UserContext(), service.EditPostInput{
		PostID:   id,
		EditorID: c.Locals(localsUserID).(uint),
		Text:     req.Text,
		GroupID:  req.GroupID,
		Image:    req.Image,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	c.Location("/posts/" + c.Params("id") + "/")
	return c.JSON(post)
}

// PostDelete handles DELETE /posts/:id/
func (s *Server) PostDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	admin, err := s.isAdmin(c)
	if err != nil {
		return models.Respond(c, err)
	}
	if err := s.postService.DeletePost(c.UserContext(), id, c.Locals(localsUserID).(uint), admin); err != nil {
		return models.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddComment handles POST /posts/:id/comment/
// @Summary Comment on a post
// @Tags posts
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path int true "Post ID"
// @Param text formData string true "Comment text"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comment/ [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	text := c.FormValue("text")
	if isJSONRequest(c) {
		var req struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.Respond(c, models.NewValidationError("Invalid request body"))
		}
		text = req.Text
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:   id,
		AuthorID: c.Locals(localsUserID).(uint),
		Text:     text,
	})
	if err != nil {
		return models.Respond(c, err)
	}

	s.publishCommentAdded(comment.Post, comment)
	c.Location("/posts/" + c.Params("id") + "/")
	return c.Status(fiber.StatusCreated).JSON(comment)
}
