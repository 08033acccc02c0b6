package models

import "time"

// ContentArticle represents an article in the member content library.
type ContentArticle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string    `gorm:"type:text" json:"content"`
	Category    string    `gorm:"index" json:"category"` // e.g. "mindset", "habits", "leadership"
	Tags        string    `json:"tags"`                  // Comma-separated tags for searchability
	MembersOnly bool      `gorm:"default:false" json:"members_only"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ContentArticle model.
func (ContentArticle) TableName() string {
	return "content_articles"
}
