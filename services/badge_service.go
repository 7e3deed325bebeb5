package services

import (
	"gorm.io/gorm"

	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

// Activity thresholds for automatic badges.
const (
	prolificPostThreshold   = 10
	communityVoiceThreshold = 50
)

// BadgeService awards activity badges. Recalculation is best-effort and is
// always run off the request path.
type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

type badgeRule struct {
	badge models.Badge
	met   func(posts, comments int64) bool
}

var badgeRules = []badgeRule{
	{
		badge: models.Badge{ID: "first-post", Name: "First Post", Icon: "pencil", Level: models.BadgeLevelBronze},
		met:   func(posts, _ int64) bool { return posts >= 1 },
	},
	{
		badge: models.Badge{ID: "prolific-contributor", Name: "Prolific Contributor", Icon: "flame", Level: models.BadgeLevelSilver},
		met:   func(posts, _ int64) bool { return posts >= prolificPostThreshold },
	},
	{
		badge: models.Badge{ID: "community-voice", Name: "Community Voice", Icon: "megaphone", Level: models.BadgeLevelGold},
		met:   func(_, comments int64) bool { return comments >= communityVoiceThreshold },
	},
}

// Recalculate evaluates every badge rule against the user's current activity
// and awards any newly earned badges. Failures are logged, never propagated.
func (s *BadgeService) Recalculate(userID string) {
	var posts, comments int64
	if err := s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&posts).Error; err != nil {
		utils.Sugar.Warnf("badge recalculation: post count failed user=%s: %v", userID, err)
		return
	}
	if err := s.db.Model(&models.Comment{}).Where("user_id = ?", userID).Count(&comments).Error; err != nil {
		utils.Sugar.Warnf("badge recalculation: comment count failed user=%s: %v", userID, err)
		return
	}

	for _, rule := range badgeRules {
		if !rule.met(posts, comments) {
			continue
		}
		if err := s.award(userID, rule.badge); err != nil {
			utils.Sugar.Warnf("badge award failed user=%s badge=%s: %v", userID, rule.badge.ID, err)
		}
	}
}

// award upserts the badge definition and links it to the user. The unique
// (user, badge) index makes a repeated award a no-op.
func (s *BadgeService) award(userID string, badge models.Badge) error {
	if err := s.db.Where("id = ?", badge.ID).FirstOrCreate(&badge).Error; err != nil {
		return err
	}
	link := models.UserBadge{UserID: userID, BadgeID: badge.ID}
	return s.db.Where("user_id = ? AND badge_id = ?", userID, badge.ID).FirstOrCreate(&link).Error
}
