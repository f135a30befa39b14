package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID   uint
	AuthorID uint
	Text     string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// ListComments returns the comments on a post, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) AddComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, notFoundOr(err, "Post", in.PostID)
	}
	if in.AuthorID == 0 {
		return nil, models.NewUnauthenticatedError("Login required")
	}

	text, err := validation.ValidateComment(in.Text)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()

	return s.commentRepo.GetByID(ctx, comment.ID)
}
