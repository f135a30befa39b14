package models

import "time"

// PreviewLength is the number of characters a post shows in its short form.
const PreviewLength = 15

// Post represents a single entry written by an author.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;autoCreateTime;<-:create;index" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	// Image is a path relative to the media root, empty when the post has none.
	Image string `gorm:"size:255" json:"image,omitempty"`
}

// Preview returns the first PreviewLength characters of the text.
func (p *Post) Preview() string {
	runes := []rune(p.Text)
	if len(runes) <= PreviewLength {
		return p.Text
	}
	return string(runes[:PreviewLength])
}

func (p *Post) String() string {
	return p.Preview()
}

// IsAuthoredBy reports whether userID wrote the post. Anonymous users never match.
func (p *Post) IsAuthoredBy(userID uint) bool {
	return userID != 0 && p.AuthorID == userID
}
