package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records that a user liked a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	UserID    string    `gorm:"size:24;not null;uniqueIndex:idx_likes_user_post" json:"userId"`
	PostID    string    `gorm:"size:24;not null;uniqueIndex:idx_likes_user_post;index" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}
