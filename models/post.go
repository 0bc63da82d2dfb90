package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog entry owned by exactly one user.
type Post struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Image     string    `gorm:"size:1024" json:"image"` // public image URL, empty when absent
	AuthorID  string    `gorm:"size:24;index;not null" json:"authorId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
