package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:            "inkwell-test-secret-0123456789abcdef",
		Port:                 "0",
		Env:                  "test",
		AllowedOrigins:       "http://localhost:8000",
		PostsPerPage:         10,
		PageCacheTTLSeconds:  20,
		MediaRoot:            t.TempDir(),
		ImageMaxDimension:    1920,
		ImageMaxUploadSizeMB: 10,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s, err := NewServerWithDeps(newTestConfig(t), db, client)
	require.NoError(t, err)
	s.now = func() time.Time { return fixedNow }

	return &testEnv{server: s, app: s.NewApp(), db: db, redis: mr}
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.server.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

// do runs req, authenticated as user when user is not nil.
func (e *testEnv) do(t *testing.T, req *http.Request, user *models.User) *http.Response {
	t.Helper()
	if user != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+e.token(t, user))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, target string, user *models.User) *http.Response {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, target, nil), user)
}

func (e *testEnv) postForm(t *testing.T, target string, form url.Values, user *models.User) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return e.do(t, req, user)
}

func (e *testEnv) postMultipart(t *testing.T, target string, fields map[string]string, image []byte, user *models.User) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "small.gif")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return e.do(t, req, user)
}

type envelope[T any] struct {
	Template string `json:"template"`
	Year     int    `json:"year"`
	Context  T      `json:"context"`
}

func decodePage[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	var page envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	return page
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}

func makeAdmin(t *testing.T, db *gorm.DB, user *models.User) {
	t.Helper()
	require.NoError(t, db.Model(user).Update("is_admin", true).Error)
}
