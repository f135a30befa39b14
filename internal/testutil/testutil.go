// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with foreign keys on and the full schema migrated.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "not-a-real-hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateGroup inserts a group whose title is derived from slug.
func CreateGroup(t testing.TB, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(t, db.Create(group).Error)
	return group
}

// CreatePost inserts a post by author at pubDate. A zero pubDate means now.
func CreatePost(t testing.TB, db *gorm.DB, author *models.User, text string, group *models.Group, pubDate time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, PubDate: pubDate}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Omit("Author", "Group").Create(post).Error)
	return post
}

// CreatePosts inserts n posts by author, one minute apart, oldest first.
func CreatePosts(t testing.TB, db *gorm.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, CreatePost(t, db, author, fmt.Sprintf("post %d", i+1), group, base.Add(time.Duration(i)*time.Minute)))
	}
	return posts
}

// Follow inserts a follow row from user to author.
func Follow(t testing.TB, db *gorm.DB, user, author *models.User) {
	t.Helper()
	require.NoError(t, db.Omit("User", "Author").Create(&models.Follow{UserID: user.ID, AuthorID: author.ID}).Error)
}

// CountRows returns the number of rows for model.
func CountRows(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// TinyGIF is a valid 2x1 GIF.
var TinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

// PNGBytes encodes a solid w x h PNG.
func PNGBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
