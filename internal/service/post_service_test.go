package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/testutil"
	"inkwell/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func catsGroupRepo() *groupRepoStub {
	return &groupRepoStub{groups: []*models.Group{{ID: 1, Title: "Cats", Slug: "cats"}}}
}

func TestPostService_CreatePost(t *testing.T) {
	repo := noopPostRepo()
	var created []*models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 42
		created = append(created, post)
		return nil
	}
	pages := &pageCacheStub{}
	svc := NewPostService(repo, catsGroupRepo(), nil, pages)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Form:     validation.PostInput{Text: " hello ", Group: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(42), post.ID)

	require.Len(t, created, 1)
	assert.Equal(t, uint(7), created[0].AuthorID)
	assert.Equal(t, "hello", created[0].Text)
	require.NotNil(t, created[0].GroupID)
	assert.Equal(t, uint(1), *created[0].GroupID)
	assert.Equal(t, 1, pages.clears)
}

func TestPostService_CreatePostRejectsInvalidForm(t *testing.T) {
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error {
		t.Fatal("create must not be called")
		return nil
	}
	pages := &pageCacheStub{}
	svc := NewPostService(repo, catsGroupRepo(), nil, pages)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Form:     validation.PostInput{Text: "", Group: "9"},
	})
	assertValidationError(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "text")
	assert.Contains(t, appErr.Fields, "group")
	assert.Zero(t, pages.clears)
}

func TestPostService_CreatePostRequiresAuthor(t *testing.T) {
	svc := NewPostService(noopPostRepo(), catsGroupRepo(), nil, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{Form: validation.PostInput{Text: "hi"}})
	assertAppError(t, err, models.CodeUnauthenticated)
}

func TestPostService_CreatePostStoresImage(t *testing.T) {
	repo := noopPostRepo()
	var stored string
	repo.createFn = func(_ context.Context, post *models.Post) error {
		stored = post.Image
		return nil
	}
	images := &imageStoreStub{path: "posts/abc.webp"}
	svc := NewPostService(repo, catsGroupRepo(), images, nil)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Form: validation.PostInput{
			Text:  "with picture",
			Image: &validation.ImageUpload{Filename: "small.gif", Content: testutil.TinyGIF},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "posts/abc.webp", stored)
	require.Len(t, images.saved, 1)
	assert.Equal(t, "small.gif", images.saved[0].Filename)
}

func TestPostService_FailedWriteDiscardsNewImage(t *testing.T) {
	dbErr := errors.New("insert failed")
	form := validation.PostInput{
		Text:  "with picture",
		Image: &validation.ImageUpload{Filename: "small.gif", Content: testutil.TinyGIF},
	}

	t.Run("create removes the file it wrote", func(t *testing.T) {
		repo := noopPostRepo()
		repo.createFn = func(_ context.Context, _ *models.Post) error { return dbErr }
		images := &imageStoreStub{path: "posts/abc.webp"}

		_, err := NewPostService(repo, catsGroupRepo(), images, nil).
			CreatePost(context.Background(), CreatePostInput{AuthorID: 7, Form: form})
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, []string{"posts/abc.webp"}, images.removed)
	})

	t.Run("create keeps a file shared with another post", func(t *testing.T) {
		repo := noopPostRepo()
		repo.createFn = func(_ context.Context, _ *models.Post) error { return dbErr }
		images := &imageStoreStub{path: "posts/abc.webp", reused: true}

		_, err := NewPostService(repo, catsGroupRepo(), images, nil).
			CreatePost(context.Background(), CreatePostInput{AuthorID: 7, Form: form})
		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, images.removed)
	})

	t.Run("edit removes the file it wrote", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Text: "original"}, nil
		}
		repo.updateFn = func(_ context.Context, _ *models.Post) error { return dbErr }
		images := &imageStoreStub{path: "posts/new.webp"}

		_, err := NewPostService(repo, catsGroupRepo(), images, nil).
			EditPost(context.Background(), EditPostInput{UserID: 1, PostID: 5, Form: form})
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, []string{"posts/new.webp"}, images.removed)
	})
}

func TestPostService_CacheClearFailureDoesNotFailWrite(t *testing.T) {
	pages := &pageCacheStub{err: errors.New("redis down")}
	svc := NewPostService(noopPostRepo(), catsGroupRepo(), nil, pages)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Form:     validation.PostInput{Text: "still saved"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pages.clears)
}

func TestPostService_EditPostByNonAuthor(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Text: "original"}, nil
	}
	repo.updateFn = func(_ context.Context, _ *models.Post) error {
		t.Fatal("update must not be called")
		return nil
	}
	pages := &pageCacheStub{}
	svc := NewPostService(repo, catsGroupRepo(), nil, pages)

	_, err := svc.EditPost(context.Background(), EditPostInput{
		UserID: 2,
		PostID: 5,
		Form:   validation.PostInput{Text: "hijacked"},
	})
	assertAppError(t, err, models.CodeUnauthorized)
	assert.Zero(t, pages.clears)
}

func TestPostService_EditPostImageHandling(t *testing.T) {
	groupID := uint(1)

	tests := []struct {
		name      string
		form      validation.PostInput
		wantImage string
	}{
		{name: "keeps image without upload", form: validation.PostInput{Text: "edited"}, wantImage: "posts/old.webp"},
		{name: "clears image", form: validation.PostInput{Text: "edited", ClearImage: true}, wantImage: ""},
		{
			name: "replaces image",
			form: validation.PostInput{
				Text:  "edited",
				Image: &validation.ImageUpload{Filename: "new.gif", Content: testutil.TinyGIF},
			},
			wantImage: "posts/new.webp",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := noopPostRepo()
			repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
				return &models.Post{ID: id, AuthorID: 1, Text: "original", GroupID: &groupID, Image: "posts/old.webp"}, nil
			}
			var updated *models.Post
			repo.updateFn = func(_ context.Context, post *models.Post) error {
				updated = post
				return nil
			}
			pages := &pageCacheStub{}
			svc := NewPostService(repo, catsGroupRepo(), &imageStoreStub{path: "posts/new.webp"}, pages)

			_, err := svc.EditPost(context.Background(), EditPostInput{UserID: 1, PostID: 5, Form: tc.form})
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, "edited", updated.Text)
			assert.Nil(t, updated.GroupID, "empty group field clears the group")
			assert.Equal(t, tc.wantImage, updated.Image)
			assert.Equal(t, 1, pages.clears)
		})
	}
}

func TestPostService_EditPostMissing(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(repo, catsGroupRepo(), nil, nil)

	_, err := svc.EditPost(context.Background(), EditPostInput{UserID: 1, PostID: 404, Form: validation.PostInput{Text: "x"}})
	assertAppError(t, err, models.CodeNotFound)
}

func TestPostService_DeletePost(t *testing.T) {
	repo := noopPostRepo()
	pages := &pageCacheStub{}
	svc := NewPostService(repo, catsGroupRepo(), nil, pages)

	require.NoError(t, svc.DeletePost(context.Background(), 3))
	assert.Equal(t, 1, pages.clears)

	repo.deleteFn = func(_ context.Context, _ uint) error { return gorm.ErrRecordNotFound }
	err := svc.DeletePost(context.Background(), 3)
	assertAppError(t, err, models.CodeNotFound)
	assert.Equal(t, 1, pages.clears)
}

func TestPostService_CreatePostPersists(t *testing.T) {
	db := testutil.NewTestDB(t)
	author := testutil.CreateUser(t, db, "leo")
	group := testutil.CreateGroup(t, db, "cats")
	mediaRoot := t.TempDir()

	svc := NewPostService(
		repository.NewPostRepository(db),
		repository.NewGroupRepository(db, nil),
		NewImageService(&config.Config{MediaRoot: mediaRoot}),
		nil,
	)

	before := testutil.CountRows(t, db, &models.Post{})
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: author.ID,
		Form: validation.PostInput{
			Text:  "Тестовый текст",
			Group: "1",
			Image: &validation.ImageUpload{Filename: "small.gif", Content: testutil.TinyGIF},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.CountRows(t, db, &models.Post{}))

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "Тестовый текст", stored.Text)
	assert.Equal(t, author.ID, stored.AuthorID)
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, group.ID, *stored.GroupID)
	assert.True(t, strings.HasPrefix(stored.Image, "posts/"), stored.Image)
	assert.True(t, strings.HasSuffix(stored.Image, ".webp"), stored.Image)
	assert.WithinDuration(t, time.Now(), stored.PubDate, time.Minute)

	_, statErr := os.Stat(filepath.Join(mediaRoot, filepath.FromSlash(stored.Image)))
	assert.NoError(t, statErr)
}
