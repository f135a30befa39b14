package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines interface for group operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db    *gorm.DB
	cache *cache.GroupCache
}

// NewGroupRepository creates a new GroupRepository. A nil groupCache reads every slug from the database.
func NewGroupRepository(db *gorm.DB, groupCache *cache.GroupCache) GroupRepository {
	return &groupRepository{db: db, cache: groupCache}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return r.cache.BySlug(ctx, slug, func() (*models.Group, error) {
		var group models.Group
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
			return nil, err
		}
		return &group, nil
	})
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("id").Find(&groups).Error
	return groups, err
}

// Delete removes the group and clears the group reference on its posts; the posts survive.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	var group models.Group
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&group, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
	if err == nil {
		r.cache.Invalidate(ctx, group.Slug)
	}
	return err
}
