package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/archalley/forum/models"
)

const maxCommentLength = 5000

// CommentService implements comment creation and counting.
type CommentService struct {
	db     *gorm.DB
	badges *BadgeService
	notify *NotifyService
}

func NewCommentService(db *gorm.DB, badges *BadgeService, notify *NotifyService) *CommentService {
	return &CommentService{db: db, badges: badges, notify: notify}
}

// Create validates and persists a comment, then kicks off badge
// recalculation in the background.
func (s *CommentService) Create(ctx context.Context, userID, postID, content string) (*CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("invalid comment payload", map[string]string{"content": "content must not be empty"})
	}
	if len(content) > maxCommentLength {
		return nil, newValidationError("invalid comment payload", map[string]string{"content": "content must be at most 5000 characters"})
	}

	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("User.Badges.Badge").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}

	if s.badges != nil {
		go s.badges.Recalculate(userID)
	}

	view := CommentView{
		ID:        comment.ID,
		Content:   comment.Content,
		Author:    NewAuthorView(&comment.User, false),
		CreatedAt: comment.CreatedAt,
	}
	return &view, nil
}

// Count returns the number of comments on a post.
func (s *CommentService) Count(ctx context.Context, postID string) (int64, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
