package models

import "time"

// Comment represents a reader's reply attached to a post.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Post     Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	Created  time.Time `gorm:"column:created;autoCreateTime;<-:create;index" json:"created"`
}
