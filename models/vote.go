package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote directions.
const (
	VoteUp   = "UP"
	VoteDown = "DOWN"
)

// IsValidVoteType reports whether t is a recognized vote direction.
func IsValidVoteType(t string) bool {
	return t == VoteUp || t == VoteDown
}

// Vote records a single user's vote on a post. The composite unique index
// guarantees at most one row per (user, post) pair; toggling the same
// direction deletes the row and the opposite direction updates it in place.
type Vote struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex:idx_votes_user_target;not null" json:"user_id"`
	PostID    string    `gorm:"size:36;index;uniqueIndex:idx_votes_user_target;not null" json:"post_id"`
	CommentID string    `gorm:"size:36;index;uniqueIndex:idx_votes_user_target" json:"comment_id"`
	Type      string    `gorm:"size:8;not null" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when missing.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
