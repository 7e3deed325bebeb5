package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge levels, ordered from lowest to highest.
const (
	BadgeLevelBronze   = "BRONZE"
	BadgeLevelSilver   = "SILVER"
	BadgeLevelGold     = "GOLD"
	BadgeLevelPlatinum = "PLATINUM"
)

// VerifiedExpertBadgeID marks a manually verified industry expert.
const VerifiedExpertBadgeID = "verified-expert"

// badgeLevelPriority ranks badge levels for display; higher wins.
var badgeLevelPriority = map[string]int{
	BadgeLevelBronze:   1,
	BadgeLevelSilver:   2,
	BadgeLevelGold:     3,
	BadgeLevelPlatinum: 4,
}

// BadgeLevelPriority returns the display rank of a badge level, 0 for unknown levels.
func BadgeLevelPriority(level string) int {
	return badgeLevelPriority[level]
}

// Badge describes an achievement that can be awarded to users.
// IDs are human-readable slugs such as "verified-expert" or "first-post".
type Badge struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Icon      string    `gorm:"size:64" json:"icon"`
	Level     string    `gorm:"size:16;not null" json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBadge links a user to an earned badge.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	UserID   string    `gorm:"size:36;index;uniqueIndex:idx_user_badge;not null" json:"user_id"`
	BadgeID  string    `gorm:"size:64;uniqueIndex:idx_user_badge;not null" json:"badge_id"`
	EarnedAt time.Time `gorm:"index" json:"earned_at"`
	Badge    Badge     `json:"badge"`
}

// BeforeCreate assigns a UUID and the earned timestamp.
func (ub *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == "" {
		ub.ID = uuid.NewString()
	}
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}
	return nil
}
