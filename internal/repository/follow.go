package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines interface for subscription rows
type FollowRepository interface {
	// Create inserts the (user, author) pair and reports whether a new row was written.
	Create(ctx context.Context, userID, authorID uint) (bool, error)
	// Delete removes the pair and reports how many rows went away.
	Delete(ctx context.Context, userID, authorID uint) (int64, error)
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	follow := &models.Follow{UserID: userID, AuthorID: authorID}
	result := r.db.WithContext(ctx).
		Omit("User", "Author").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	return result.RowsAffected, result.Error
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}
