package server

import (
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestProfileFollow(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	reader := testutil.CreateUser(t, env.db, "fyodor")

	for i := 0; i < 2; i++ {
		resp := env.get(t, "/profile/leo/follow", reader)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "/follow", resp.Header.Get(fiber.HeaderLocation))
	}

	var follows []models.Follow
	assert.NoError(t, env.db.Find(&follows).Error)
	if assert.Len(t, follows, 1) {
		assert.Equal(t, reader.ID, follows[0].UserID)
		assert.Equal(t, author.ID, follows[0].AuthorID)
	}
}

func TestProfileFollow_Self(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")

	resp := env.get(t, "/profile/leo/follow", author)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/follow", resp.Header.Get(fiber.HeaderLocation))
	assert.Zero(t, testutil.CountRows(t, env.db, &models.Follow{}))
}

func TestProfileFollow_UnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	reader := testutil.CreateUser(t, env.db, "fyodor")

	resp := env.get(t, "/profile/nobody/follow", reader)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.get(t, "/profile/nobody/unfollow", reader)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProfileFollow_Anonymous(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	resp := env.get(t, "/profile/leo/follow", nil)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=/profile/leo/follow", resp.Header.Get(fiber.HeaderLocation))
	assert.Zero(t, testutil.CountRows(t, env.db, &models.Follow{}))
}

func TestProfileUnfollow(t *testing.T) {
	env := newTestEnv(t)
	author := testutil.CreateUser(t, env.db, "leo")
	reader := testutil.CreateUser(t, env.db, "fyodor")
	bystander := testutil.CreateUser(t, env.db, "anton")
	testutil.Follow(t, env.db, reader, author)
	testutil.Follow(t, env.db, bystander, author)

	resp := env.get(t, "/profile/leo/unfollow", reader)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/follow", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.Follow{}))

	// Unfollowing again is a no-op.
	resp = env.get(t, "/profile/leo/unfollow", reader)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.Follow{}))
}
