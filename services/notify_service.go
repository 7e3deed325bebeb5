package services

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions returns the unique usernames mentioned in text with the
// @-prefix stripped, in order of first appearance.
func ExtractMentions(text string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// NotifyService persists in-app notifications and sends best-effort email
// copies. All methods are designed to run in background goroutines; they log
// failures instead of returning them.
type NotifyService struct {
	db *gorm.DB
}

func NewNotifyService(db *gorm.DB) *NotifyService {
	return &NotifyService{db: db}
}

// UpvoteReceived notifies a post author that someone upvoted their post.
func (s *NotifyService) UpvoteReceived(recipientID, actorID, postID string) {
	var actor models.User
	if err := s.db.First(&actor, "id = ?", actorID).Error; err != nil {
		utils.Sugar.Warnf("upvote notification: actor lookup failed id=%s: %v", actorID, err)
		return
	}
	msg := fmt.Sprintf("%s upvoted your post", actor.Username)
	s.deliver(models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationUpvote,
		PostID:      postID,
		Message:     msg,
	}, "Your post received an upvote", msg)
}

// MentionsInPost notifies every user @-mentioned in a new post, skipping the
// author's self-mentions and usernames that don't resolve.
func (s *NotifyService) MentionsInPost(postID, authorID, content string) {
	names := ExtractMentions(content)
	if len(names) == 0 {
		return
	}
	var author models.User
	if err := s.db.First(&author, "id = ?", authorID).Error; err != nil {
		utils.Sugar.Warnf("mention notification: author lookup failed id=%s: %v", authorID, err)
		return
	}
	var users []models.User
	if err := s.db.Where("username IN ?", names).Find(&users).Error; err != nil {
		utils.Sugar.Warnf("mention notification: user lookup failed: %v", err)
		return
	}
	msg := fmt.Sprintf("%s mentioned you in a post", author.Username)
	for _, u := range users {
		if u.ID == authorID {
			continue
		}
		s.deliver(models.Notification{
			RecipientID: u.ID,
			ActorID:     authorID,
			Type:        models.NotificationMention,
			PostID:      postID,
			Message:     msg,
		}, "You were mentioned", msg)
	}
}

// BadgeEarned notifies a user about a newly awarded badge.
func (s *NotifyService) BadgeEarned(recipientID, badgeName string) {
	msg := fmt.Sprintf("You earned the %s badge", badgeName)
	s.deliver(models.Notification{
		RecipientID: recipientID,
		Type:        models.NotificationBadge,
		Message:     msg,
	}, "New badge earned", msg)
}

// deliver writes the in-app notification row and sends the email copy when
// the recipient has an address. Each step is independently best-effort.
func (s *NotifyService) deliver(n models.Notification, subject, body string) {
	if err := s.db.Create(&n).Error; err != nil {
		utils.Sugar.Warnf("notification persist failed recipient=%s type=%s: %v", n.RecipientID, n.Type, err)
	}
	var recipient models.User
	if err := s.db.First(&recipient, "id = ?", n.RecipientID).Error; err != nil || recipient.Email == "" {
		return
	}
	if err := utils.SendMail(recipient.Email, subject, body); err != nil {
		utils.Sugar.Debugf("notification email skipped recipient=%s: %v", n.RecipientID, err)
	}
}
