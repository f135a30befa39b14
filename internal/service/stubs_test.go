package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
	listFn    func(context.Context, repository.PostFilter, int, int) ([]*models.Post, error)
	countFn   func(context.Context, repository.PostFilter) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context, filter repository.PostFilter) (int64, error) {
	return s.countFn(ctx, filter)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countFn: func(_ context.Context, _ repository.PostFilter) (int64, error) { return 0, nil },
	}
}

// groupRepoStub is a stub for repository.GroupRepository backed by a slice.
type groupRepoStub struct {
	groups []*models.Group
}

func (s *groupRepoStub) Create(_ context.Context, group *models.Group) error {
	group.ID = uint(len(s.groups) + 1)
	s.groups = append(s.groups, group)
	return nil
}
func (s *groupRepoStub) GetByID(_ context.Context, id uint) (*models.Group, error) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *groupRepoStub) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	for _, g := range s.groups {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *groupRepoStub) List(_ context.Context) ([]*models.Group, error) {
	return s.groups, nil
}
func (s *groupRepoStub) Delete(_ context.Context, _ uint) error {
	return nil
}

// pageCacheStub counts Clear calls and optionally fails them.
type pageCacheStub struct {
	clears int
	err    error
}

func (s *pageCacheStub) Clear(_ context.Context) error {
	s.clears++
	return s.err
}

// imageStoreStub records saved and removed images.
type imageStoreStub struct {
	saved   []*validation.DecodedImage
	removed []string
	path    string
	reused  bool
	err     error
}

func (s *imageStoreStub) Save(_ context.Context, img *validation.DecodedImage) (StoredImage, error) {
	if s.err != nil {
		return StoredImage{}, s.err
	}
	s.saved = append(s.saved, img)
	return StoredImage{Path: s.path, Created: !s.reused}, nil
}

func (s *imageStoreStub) Remove(_ context.Context, path string) error {
	s.removed = append(s.removed, path)
	return nil
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
