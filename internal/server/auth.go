package server

import (
	"context"
	"net/url"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	localsUserID  = "userID"
	localsUser    = "user"
	localsSession = "session"
)

// authenticate verifies the request's session token and checks it was not revoked.
func (s *Server) authenticate(c *fiber.Ctx) (*middleware.SessionClaims, error) {
	claims, err := middleware.ParseToken(s.config.JWTSecret, middleware.TokenFromRequest(c))
	if err != nil {
		return nil, err
	}
	if claims.ID != "" && s.redis != nil {
		revoked, err := s.redis.Exists(c.UserContext(), middleware.BlacklistKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, middleware.ErrInvalidToken
		}
	}
	return claims, nil
}

// AuthRequired returns the authentication middleware. Browser requests without
// a session are redirected to the login page with the original path in next;
// a rejected bearer token yields 401. A token whose user was deleted counts as
// no session.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return s.rejectSession(c, err)
		}
		user, err := s.userService.GetUserByID(c.UserContext(), claims.UserID)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return s.rejectSession(c, middleware.ErrInvalidToken)
			}
			return models.Respond(c, err)
		}

		c.Locals(localsUserID, claims.UserID)
		c.Locals(localsUser, user)
		c.Locals(localsSession, claims)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		admin, err := s.isAdmin(c)
		if err != nil {
			return models.Respond(c, err)
		}
		if !admin {
			return models.Respond(c, models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

func (s *Server) rejectSession(c *fiber.Ctx, err error) error {
	if c.Get(fiber.HeaderAuthorization) != "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}
	return c.Redirect(s.loginURL(c.OriginalURL()), fiber.StatusFound)
}

func (s *Server) isAdmin(c *fiber.Ctx) (bool, error) {
	if user, ok := c.Locals(localsUser).(*models.User); ok {
		return user.IsAdmin, nil
	}
	userID, ok := c.Locals(localsUserID).(uint)
	if !ok {
		return false, nil
	}
	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// loginURL builds LOGIN_PATH?next=<path> keeping slashes readable.
func (s *Server) loginURL(next string) string {
	login := s.config.LoginPath
	if login == "" {
		login = "/auth/login/"
	}
	return login + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// currentUserID returns the authenticated user, if any. It never rejects the request.
func (s *Server) currentUserID(c *fiber.Ctx) (uint, bool) {
	if uid, ok := c.Locals(localsUserID).(uint); ok {
		return uid, true
	}
	claims, err := s.authenticate(c)
	if err != nil {
		return 0, false
	}
	return claims.UserID, true
}
