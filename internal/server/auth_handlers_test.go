package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodPost, "/auth/signup/", map[string]any{
		"username": "leo",
		"email":    "leo@example.com",
		"password": "s3cretpass",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[models.User](t, resp)
	assert.Equal(t, "leo", user.Username)

	resp = env.do(t, http.MethodPost, "/auth/signup/", map[string]any{
		"username": "leo",
		"password": "s3cretpass",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/login/?next=/create/", map[string]any{
		"username": "leo",
		"password": "wrong-pass1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/auth/login/?next=/create/", map[string]any{
		"username": "leo",
		"password": "s3cretpass",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "/create/", body["next"])
	claims, err := middleware.ParseToken(testJWTSecret, body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The cookie alone authenticates browser requests.
	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusOK, env.send(t, req).StatusCode)
}

func TestSignup_Validation(t *testing.T) {
	env := setupTestServer(t)

	resp := env.do(t, http.MethodPost, "/auth/signup/", map[string]any{
		"username": "bad name",
		"password": "short",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[models.ErrorResponse](t, resp)
	assert.Contains(t, body.Fields, "username")
	assert.Contains(t, body.Fields, "password")
}

func TestLoginForm_KeepsOnlyLocalNext(t *testing.T) {
	env := setupTestServer(t)

	tests := map[string]string{
		"/auth/login/?next=/follow/":              "/follow/",
		"/auth/login/?next=https://evil.example/": "/",
		"/auth/login/?next=//evil.example/":       "/",
		"/auth/login/":                            "/",
	}
	for path, want := range tests {
		body := decode[map[string]any](t, env.do(t, http.MethodGet, path, nil, nil))
		assert.Equal(t, want, body["next"], path)
	}
}

func TestAuthRequired_InvalidBearer(t *testing.T) {
	env := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp := env.send(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired_DeletedUser(t *testing.T) {
	env := setupTestServer(t)
	user := env.createUser(t, "ghost", false)
	token := tokenFor(t, user)
	require.NoError(t, env.db.Delete(&models.User{}, user.ID).Error)

	req := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp := env.send(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	resp = env.send(t, req)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next=/create/", resp.Header.Get(fiber.HeaderLocation))

	var count int64
	require.NoError(t, env.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := setupTestServer(t)
	user := env.createUser(t, "leo", false)

	resp := env.do(t, http.MethodPost, "/auth/logout/", nil, user)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	header := strings.Join(resp.Header.Values(fiber.HeaderSetCookie), ";")
	assert.Contains(t, header, middleware.SessionCookie+"=")
}

func TestLoginURL(t *testing.T) {
	s := &Server{config: testConfig(t)}

	assert.Equal(t, "/auth/login/?next=/create/", s.loginURL("/create/"))
	assert.Equal(t, "/auth/login/?next=/follow/%3Fpage%3D2", s.loginURL("/follow/?page=2"))
}
