package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                  "test",
		JWTSecret:            testJWTSecret,
		PageSize:             10,
		IndexCacheTTLSeconds: 20,
		LoginPath:            "/auth/login/",
		MediaDir:             t.TempDir(),
		ImageMaxUploadSizeMB: 1,
		ImageMaxDimension:    1920,
	}
}

// setupTestServer wires a full server over a private in-memory SQLite database without Redis.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	s, err := NewServerWithDeps(testConfig(t), db, nil)
	require.NoError(t, err)
	return &testEnv{server: s, app: s.NewApp(), db: db}
}

func (e *testEnv) createUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash", IsAdmin: admin}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, e.db.Create(group).Error)
	return group
}

func (e *testEnv) createPost(t *testing.T, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, PubDate: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := middleware.IssueToken(testJWTSecret, user.ID, user.Username, time.Now())
	require.NoError(t, err)
	return token
}

// do sends a request; a non-nil body is encoded as JSON and a non-nil user is authenticated with a bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, user *models.User) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if user != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, user))
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type pageBody struct {
	PageObj struct {
		Items       []models.Post `json:"items"`
		Number      int           `json:"number"`
		TotalItems  int64         `json:"total_items"`
		TotalPages  int           `json:"total_pages"`
		HasNext     bool          `json:"has_next"`
		HasPrevious bool          `json:"has_previous"`
	} `json:"page_obj"`
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
