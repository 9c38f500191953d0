package server

import (
	"log/slog"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Next     string `json:"next" form:"next"`
}

type signupRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
}

// safeNext keeps only local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

// LoginForm handles GET /auth/login/
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"next":   safeNext(c.Query("next")),
		"fields": []string{"username", "password"},
	})
}

// Login handles POST /auth/login/
// @Summary Log in
// @Description Issues a session token, also set as the session cookie.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body credentials true "Credentials"
// @Success 200 {object} object{token=string,user=models.User,next=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login/ [post]
func (s *Server) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req credentials
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("Invalid request body"))
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	user, err := s.userService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return models.Respond(c, err)
	}

	token, session, err := middleware.IssueToken(s.config.JWTSecret, user.ID, user.Username, time.Now())
	if err != nil {
		return models.Respond(c, models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	middleware.Logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)))

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
		"next":  safeNext(req.Next),
	})
}

// Signup handles POST /auth/signup/
// @Summary Register an account
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body signupRequest true "New account"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/signup/ [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.Respond(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return models.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Logout handles POST /auth/logout/
// The token id is blacklisted for the rest of its lifetime.
func (s *Server) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if claims, err := middleware.ParseToken(s.config.JWTSecret, middleware.TokenFromRequest(c)); err == nil && s.redis != nil && claims.ID != "" {
		if ttl := time.Until(claims.ExpiresAt); ttl > 0 {
			if err := s.redis.Set(ctx, middleware.BlacklistKey(claims.ID), "1", ttl).Err(); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to revoke token", slog.String("error", err.Error()))
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"status": "logged_out"})
}
