package models

// Follow is a directed subscription from User to Author.
// The pair is unique and a user can never follow themselves.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_follows_user_author;check:chk_follows_not_self,user_id <> author_id" json:"user_id"`
	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_follows_user_author;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
