package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// FollowService manages subscriptions between readers and authors.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow subscribes userID to authorUsername. Following someone twice is a no-op;
// following yourself is INVALID_OPERATION and writes nothing.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return notFoundOr(err, "User", authorUsername)
	}
	if author.ID == userID {
		return models.NewInvalidOperationError("You cannot follow yourself")
	}

	created, err := s.followRepo.Create(ctx, userID, author.ID)
	if err != nil {
		return err
	}
	if created {
		observability.FollowTransitions.WithLabelValues("follow").Inc()
	}
	return nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) error {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return notFoundOr(err, "User", authorUsername)
	}

	removed, err := s.followRepo.Delete(ctx, userID, author.ID)
	if err != nil {
		return err
	}
	if removed > 0 {
		observability.FollowTransitions.WithLabelValues("unfollow").Inc()
	}
	return nil
}

// IsFollowing is always false for anonymous viewers.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}
