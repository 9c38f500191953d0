package server

import (
	"net/http"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countFollows(t *testing.T, env *testEnv, userID, authorID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).Count(&n).Error)
	return n
}

func TestProfileFollow_Idempotent(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, "leo", false)
	reader := env.createUser(t, "reader", false)

	first := env.do(t, http.MethodPost, "/profile/leo/follow/", nil, reader)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.True(t, decode[map[string]any](t, first)["created"].(bool))

	second := env.do(t, http.MethodGet, "/profile/leo/follow/", nil, reader)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.False(t, decode[map[string]any](t, second)["created"].(bool))

	assert.Equal(t, int64(1), countFollows(t, env, reader.ID, author.ID))
}

func TestProfileUnfollow_Idempotent(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, "leo", false)
	reader := env.createUser(t, "reader", false)
	require.NoError(t, env.db.Create(&models.Follow{UserID: reader.ID, AuthorID: author.ID}).Error)

	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodPost, "/profile/leo/unfollow/", nil, reader)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Zero(t, countFollows(t, env, reader.ID, author.ID))
}

func TestProfileFollow_UnknownAuthor(t *testing.T) {
	env := setupTestServer(t)
	reader := env.createUser(t, "reader", false)

	resp := env.do(t, http.MethodPost, "/profile/nobody/follow/", nil, reader)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFollowIndex_TracksSubscriptions(t *testing.T) {
	env := setupTestServer(t)
	author := env.createUser(t, "leo", false)
	other := env.createUser(t, "other", false)
	reader := env.createUser(t, "reader", false)
	followed := env.createPost(t, author, nil, "from leo", time.Now())
	env.createPost(t, other, nil, "from other", time.Now())

	before := decode[pageBody](t, env.do(t, http.MethodGet, "/follow/", nil, reader))
	assert.Empty(t, before.PageObj.Items)

	env.do(t, http.MethodPost, "/profile/leo/follow/", nil, reader)
	during := decode[pageBody](t, env.do(t, http.MethodGet, "/follow/", nil, reader))
	assert.Equal(t, []uint{followed.ID}, postIDs(during.PageObj.Items))

	// Another user's feed is unaffected.
	otherFeed := decode[pageBody](t, env.do(t, http.MethodGet, "/follow/", nil, other))
	assert.Empty(t, otherFeed.PageObj.Items)

	env.do(t, http.MethodPost, "/profile/leo/unfollow/", nil, reader)
	after := decode[pageBody](t, env.do(t, http.MethodGet, "/follow/", nil, reader))
	assert.Empty(t, after.PageObj.Items)
}
