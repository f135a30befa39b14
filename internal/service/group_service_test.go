package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/testutil"
	"inkwell/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupService_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewGroupService(repository.NewGroupRepository(db, nil), nil)
	ctx := context.Background()

	group, err := svc.Create(ctx, validation.GroupInput{Title: " Cats ", Slug: "cats", Description: "All about cats"})
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)

	_, err = svc.Create(ctx, validation.GroupInput{Title: "Cats again", Slug: "cats", Description: "dup"})
	assertValidationError(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Fields, "slug")

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestGroupService_DeleteKeepsPostsAndClearsPages(t *testing.T) {
	db := testutil.NewTestDB(t)
	pages := &pageCacheStub{}
	svc := NewGroupService(repository.NewGroupRepository(db, nil), pages)
	ctx := context.Background()

	author := testutil.CreateUser(t, db, "leo")
	cats := testutil.CreateGroup(t, db, "cats")
	post := testutil.CreatePost(t, db, author, "meow", cats, time.Time{})

	require.NoError(t, svc.Delete(ctx, "cats"))
	assert.Equal(t, 1, pages.clears)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Nil(t, stored.GroupID)

	assertAppError(t, svc.Delete(ctx, "cats"), models.CodeNotFound)
}
