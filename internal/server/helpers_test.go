package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParam(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(pageParam(c)))
	})

	tests := map[string]string{
		"/":          "1",
		"/?page=3":   "3",
		"/?page=0":   "1",
		"/?page=-2":  "1",
		"/?page=two": "1",
	}
	for path, want := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		body := make([]byte, 8)
		n, _ := resp.Body.Read(body)
		_ = resp.Body.Close()
		assert.Equal(t, want, string(body[:n]), path)
	}
}

func TestParseGroupID(t *testing.T) {
	id, err := parseGroupID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = parseGroupID(" 7 ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(7), *id)

	for _, raw := range []string{"abc", "0", "-1"} {
		_, err := parseGroupID(raw)
		assert.True(t, models.HasCode(err, models.CodeValidation), raw)
	}
}
