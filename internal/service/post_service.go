package service

import (
	"context"
	"log/slog"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// PageInvalidator drops every cached page.
type PageInvalidator interface {
	Clear(ctx context.Context) error
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageStore
	pages     PageInvalidator
}

type CreatePostInput struct {
	AuthorID uint
	Form     validation.PostInput
}

type EditPostInput struct {
	UserID uint
	PostID uint
	Form   validation.PostInput
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageStore,
	pages PageInvalidator,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
		pages:     pages,
	}
}

// GetPost returns a post with its author and group loaded.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return post, nil
}

// CountByAuthor returns how many posts authorID has written.
func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.postRepo.Count(ctx, repository.PostFilter{AuthorID: &authorID})
}

// ListGroups returns the choices for the post form's group field.
func (s *PostService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post.create", attribute.Int64("author.id", int64(in.AuthorID)))
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	draft, err := validation.ValidatePost(ctx, in.Form, s.groupRepo)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     draft.Text,
		AuthorID: in.AuthorID,
		GroupID:  draft.GroupID,
	}
	var stored StoredImage
	if draft.Image != nil {
		stored, err = s.saveImage(ctx, draft.Image)
		if err != nil {
			return nil, err
		}
		post.Image = stored.Path
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, stored)
		return nil, err
	}
	observability.PostsWritten.WithLabelValues("create").Inc()
	s.invalidatePages(ctx)

	return s.GetPost(ctx, post.ID)
}

// EditPost applies the form to a post written by in.UserID. Anyone else gets UNAUTHORIZED
// and the post is left untouched.
func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post.edit", attribute.Int64("post.id", int64(in.PostID)))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(in.UserID) {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	draft, err := validation.ValidatePost(ctx, in.Form, s.groupRepo)
	if err != nil {
		return nil, err
	}

	post.Text = draft.Text
	post.GroupID = draft.GroupID
	var stored StoredImage
	switch {
	case draft.Image != nil:
		stored, err = s.saveImage(ctx, draft.Image)
		if err != nil {
			return nil, err
		}
		post.Image = stored.Path
	case draft.ClearImage:
		post.Image = ""
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.discardImage(ctx, stored)
		return nil, notFoundOr(err, "Post", in.PostID)
	}
	observability.PostsWritten.WithLabelValues("update").Inc()
	s.invalidatePages(ctx)

	return s.GetPost(ctx, post.ID)
}

// DeletePost removes a post and its comments.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "Post", id)
	}
	observability.PostsWritten.WithLabelValues("delete").Inc()
	s.invalidatePages(ctx)
	return nil
}

func (s *PostService) saveImage(ctx context.Context, img *validation.DecodedImage) (StoredImage, error) {
	if s.images == nil {
		return StoredImage{}, models.NewValidationError("Image uploads are not configured")
	}
	stored, err := s.images.Save(ctx, img)
	if err != nil {
		return StoredImage{}, models.NewInternalError(err)
	}
	return stored, nil
}

// discardImage drops a file written for a post that was never saved. Files that
// already existed may belong to other posts and are left alone.
func (s *PostService) discardImage(ctx context.Context, stored StoredImage) {
	if !stored.Created {
		return
	}
	if err := s.images.Remove(ctx, stored.Path); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to remove orphaned image",
			slog.String("path", stored.Path), slog.String("error", err.Error()))
	}
}

func (s *PostService) invalidatePages(ctx context.Context) {
	clearPageCache(ctx, s.pages)
}

// clearPageCache runs after a committed write. Failures are logged, never returned.
func clearPageCache(ctx context.Context, pages PageInvalidator) {
	if pages == nil {
		return
	}
	if err := pages.Clear(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "page cache clear failed", slog.String("error", err.Error()))
		return
	}
	observability.PageCacheClears.Inc()
}
