package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPageStore struct {
	disabled bool
	getErr   error
	pages    map[string][]byte
}

func newMemoryPageStore() *memoryPageStore {
	return &memoryPageStore{pages: map[string][]byte{}}
}

func (m *memoryPageStore) Enabled() bool { return !m.disabled }

func (m *memoryPageStore) Key(path, query string) string { return path + "?" + query }

func (m *memoryPageStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	body, ok := m.pages[key]
	return body, ok, nil
}

func (m *memoryPageStore) Set(_ context.Context, key string, body []byte) error {
	m.pages[key] = body
	return nil
}

func counterApp(store PageStore) (*fiber.App, *int) {
	calls := 0
	app := fiber.New()
	app.Get("/", CachePage(store), func(c *fiber.Ctx) error {
		calls++
		return c.JSON(fiber.Map{"calls": calls})
	})
	app.Get("/missing", CachePage(store), func(c *fiber.Ctx) error {
		calls++
		return c.SendStatus(fiber.StatusNotFound)
	})
	return app, &calls
}

func get(t *testing.T, app *fiber.App, target string) (string, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp.Header.Get(HeaderPageCache)
}

func TestCachePage_ServesStoredBody(t *testing.T) {
	store := newMemoryPageStore()
	app, calls := counterApp(store)

	first, state := get(t, app, "/")
	assert.Equal(t, "MISS", state)

	second, state := get(t, app, "/")
	assert.Equal(t, "HIT", state)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, *calls)

	_, state = get(t, app, "/?page=2")
	assert.Equal(t, "MISS", state)
	assert.Equal(t, 2, *calls)
}

func TestCachePage_SkipsNonOK(t *testing.T) {
	store := newMemoryPageStore()
	app, calls := counterApp(store)

	get(t, app, "/missing")
	get(t, app, "/missing")
	assert.Equal(t, 2, *calls)
	assert.Empty(t, store.pages)
}

func TestCachePage_DisabledOrFailingStore(t *testing.T) {
	disabled := newMemoryPageStore()
	disabled.disabled = true
	app, calls := counterApp(disabled)

	_, state := get(t, app, "/")
	get(t, app, "/")
	assert.Empty(t, state)
	assert.Equal(t, 2, *calls)

	failing := newMemoryPageStore()
	failing.getErr = errors.New("redis down")
	app, calls = counterApp(failing)

	body, _ := get(t, app, "/")
	assert.Contains(t, body, `"calls":1`)
	assert.Equal(t, 1, *calls)
}
