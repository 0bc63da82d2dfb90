package models

import (
	"time"

	"gorm.io/gorm"
)

// Follow is a directed edge: FollowerID follows FollowingID.
// The pair must be unique and the two sides must differ.
type Follow struct {
	ID          string    `gorm:"primaryKey;size:24" json:"id"`
	FollowerID  string    `gorm:"size:24;not null;uniqueIndex:idx_follows_pair" json:"followerId"`
	FollowingID string    `gorm:"size:24;not null;uniqueIndex:idx_follows_pair;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
	Follower    *User     `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Following   *User     `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}
