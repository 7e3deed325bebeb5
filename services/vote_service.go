package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/archalley/forum/models"
	"github.com/archalley/forum/ratelimit"
	"github.com/archalley/forum/utils"
)

// Vote toggle outcomes.
const (
	VoteCreated = "created"
	VoteRemoved = "removed"
	VoteUpdated = "updated"
)

// VoteResult is the state of a post's votes after a toggle or a read.
type VoteResult struct {
	Upvotes   int64   `json:"upvotes"`
	Downvotes int64   `json:"downvotes"`
	UserVote  *string `json:"userVote"`
}

// VoteService implements the vote toggle workflow.
type VoteService struct {
	db        *gorm.DB
	limiter   *ratelimit.FixedWindow
	txTimeout time.Duration
	notify    *NotifyService
}

// NewVoteService wires a VoteService with its per-user limiter and the
// transaction deadline.
func NewVoteService(db *gorm.DB, limiter *ratelimit.FixedWindow, txTimeout time.Duration, notify *NotifyService) *VoteService {
	if txTimeout <= 0 {
		txTimeout = 10 * time.Second
	}
	return &VoteService{db: db, limiter: limiter, txTimeout: txTimeout, notify: notify}
}

// DecideToggle resolves the toggle state machine: no existing vote creates
// one, the same direction removes it, the opposite direction flips it.
func DecideToggle(existing *models.Vote, requested string) string {
	if existing == nil {
		return VoteCreated
	}
	if existing.Type == requested {
		return VoteRemoved
	}
	return VoteUpdated
}

// Toggle applies a vote of the given type from userID on postID. The write
// runs in a read-committed transaction bounded by the configured timeout,
// and the returned counts are read inside the same transaction so the
// response reflects the committed state.
func (s *VoteService) Toggle(ctx context.Context, userID, postID, voteType string) (*VoteResult, error) {
	if !models.IsValidVoteType(voteType) {
		return nil, newValidationError("invalid vote type", map[string]string{"type": "type must be UP or DOWN"})
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		return nil, ErrRateLimited
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		result   VoteResult
		state    string
		postUser string
	)
	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		postUser = post.UserID

		var existing models.Vote
		var current *models.Vote
		err := tx.Where("user_id = ? AND post_id = ? AND comment_id = ''", userID, postID).First(&existing).Error
		if err == nil {
			current = &existing
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		state = DecideToggle(current, voteType)
		switch state {
		case VoteCreated:
			vote := models.Vote{UserID: userID, PostID: postID, CommentID: "", Type: voteType}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result.UserVote = &vote.Type
		case VoteRemoved:
			if err := tx.Delete(&models.Vote{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
		case VoteUpdated:
			if err := tx.Model(&models.Vote{}).Where("id = ?", existing.ID).Update("type", voteType).Error; err != nil {
				return err
			}
			result.UserVote = &voteType
		}

		up, down, err := countVotes(tx, postID)
		if err != nil {
			return err
		}
		result.Upvotes, result.Downvotes = up, down
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVoteConflict
		}
		return nil, err
	}

	// A flip to UP counts as receiving an upvote too; removals never notify.
	if s.notify != nil && state != VoteRemoved && voteType == models.VoteUp && postUser != userID {
		go s.notify.UpvoteReceived(postUser, userID, postID)
	}
	utils.Sugar.Debugf("vote toggled state=%s post=%s user=%s", state, postID, userID)
	return &result, nil
}

// Counts returns the current vote totals for a post plus the viewer's own
// vote when viewerID is non-empty.
func (s *VoteService) Counts(ctx context.Context, postID, viewerID string) (*VoteResult, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id").First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	up, down, err := countVotes(s.db.WithContext(ctx), postID)
	if err != nil {
		return nil, err
	}
	result := VoteResult{Upvotes: up, Downvotes: down}

	if viewerID != "" {
		var vote models.Vote
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ? AND comment_id = ''", viewerID, postID).
			First(&vote).Error
		if err == nil {
			result.UserVote = &vote.Type
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return &result, nil
}

func countVotes(db *gorm.DB, postID string) (up, down int64, err error) {
	if err = db.Model(&models.Vote{}).
		Where("post_id = ? AND comment_id = '' AND type = ?", postID, models.VoteUp).
		Count(&up).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&models.Vote{}).
		Where("post_id = ? AND comment_id = '' AND type = ?", postID, models.VoteDown).
		Count(&down).Error; err != nil {
		return 0, 0, err
	}
	return up, down, nil
}
