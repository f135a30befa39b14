package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"gorm.io/gorm"
)

// GroupService exposes group lookups and the admin group actions.
type GroupService struct {
	groupRepo repository.GroupRepository
	pages     PageInvalidator
}

func NewGroupService(groupRepo repository.GroupRepository, pages PageInvalidator) *GroupService {
	return &GroupService{groupRepo: groupRepo, pages: pages}
}

func (s *GroupService) List(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Group", slug)
	}
	return group, nil
}

// Create adds a group. A taken slug is reported as a field error.
func (s *GroupService) Create(ctx context.Context, in validation.GroupInput) (*models.Group, error) {
	if err := validation.ValidateGroup(in); err != nil {
		return nil, err
	}

	_, err := s.groupRepo.GetBySlug(ctx, in.Slug)
	switch {
	case err == nil:
		fields := validation.FieldErrors{}
		fields.Add("slug", "Group with this slug already exists.")
		return nil, fields.Err()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	group := &models.Group{
		Title:       strings.TrimSpace(in.Title),
		Slug:        in.Slug,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes the group. Its posts stay, with no group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	group, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return notFoundOr(err, "Group", slug)
	}
	clearPageCache(ctx, s.pages)
	return nil
}
