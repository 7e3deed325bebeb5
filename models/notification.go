package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationUpvote  = "UPVOTE"
	NotificationMention = "MENTION"
	NotificationBadge   = "BADGE"
)

// Notification records an in-app notification for a user. Email delivery of
// the same event is handled separately and is best-effort.
type Notification struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	RecipientID string    `gorm:"size:36;index;not null" json:"recipient_id"`
	ActorID     string    `gorm:"size:36" json:"actor_id"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	PostID      string    `gorm:"size:36;index" json:"post_id"`
	Message     string    `gorm:"size:512" json:"message"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID when missing.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
