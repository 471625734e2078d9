// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post.
// PostID is resolved from the request path on create and is read-only in
// payloads; clients cannot re-parent a comment.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"-"`
	Author    Author         `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint           `gorm:"not null;index" json:"post"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
