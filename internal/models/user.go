// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Ripple application.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;not null" json:"username"`
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Bio            string         `json:"bio"`
	ProfilePicture string         `json:"profile_picture"`
	CreatedAt      time.Time      `json:"date_joined"`
	UpdatedAt      time.Time      `json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// Author is the compact user projection embedded in post and comment
// payloads. It reads from the users table but is never migrated or written.
type Author struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// TableName maps the Author projection onto the users table.
func (Author) TableName() string {
	return "users"
}

// Profile is the public view of a user: no email, no credentials, posts
// embedded and projected for the requesting viewer.
type Profile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	DateJoined     time.Time `json:"date_joined"`
	Posts          []*Post   `json:"posts"`
}

// ProfileFromUser builds the public profile projection for a user.
func ProfileFromUser(u *User, posts []*Post) *Profile {
	if posts == nil {
		posts = []*Post{}
	}
	return &Profile{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		DateJoined:     u.CreatedAt,
		Posts:          posts,
	}
}
