package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a feed query. Nil fields do not filter.
type PostFilter struct {
	GroupID  *uint
	AuthorID *uint
	// FollowedBy keeps posts whose author is followed by this user.
	FollowedBy *uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// feedOrder is shared by every feed so pagination stays stable across requests.
const feedOrder = "pub_date DESC, id DESC"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Preload("Group").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update writes the editable fields. A nil GroupID is stored as NULL; pub_date is never touched.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
		"text":     post.Text,
		"group_id": post.GroupID,
		"image":    post.Image,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the post and its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	db := readDB(r.db).WithContext(ctx)
	err := applyPostFilter(db, filter).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	db := readDB(r.db).WithContext(ctx)
	err := applyPostFilter(db.Model(&models.Post{}), filter).Count(&count).Error
	return count, err
}

func applyPostFilter(db *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.GroupID != nil {
		db = db.Where("group_id = ?", *filter.GroupID)
	}
	if filter.AuthorID != nil {
		db = db.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.FollowedBy != nil {
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", *filter.FollowedBy)
		db = db.Where("author_id IN (?)", followed)
	}
	return db
}
