package services

import (
	"sort"
	"strings"
	"time"

	"github.com/archalley/forum/models"
)

// AuthorView is the public author block of a post or comment. For anonymous
// posts it collapses to a placeholder with no identifying fields.
type AuthorView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl"`
	Profession string `json:"profession,omitempty"`
	IsVerified bool   `json:"isVerified"`
	RankName   string `json:"rankName,omitempty"`
	RankIcon   string `json:"rankIcon,omitempty"`
}

// CommentView is the shaped representation of a comment.
type CommentView struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	Author    AuthorView `json:"author"`
	Upvotes   int64      `json:"upvotes"`
	Downvotes int64      `json:"downvotes"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PostView is the client-facing representation of a post.
type PostView struct {
	ID                string       `json:"id"`
	Content           string       `json:"content"`
	TranslatedContent string       `json:"translatedContent"`
	Category          string       `json:"category"`
	CategoryIDs       []string     `json:"categoryIds"`
	IsAnonymous       bool         `json:"isAnonymous"`
	IsPinned          bool         `json:"isPinned"`
	OriginalLanguage  string       `json:"originalLanguage"`
	Author            AuthorView   `json:"author"`
	Upvotes           int64        `json:"upvotes"`
	Downvotes         int64        `json:"downvotes"`
	UserVote          *string      `json:"userVote"`
	Comments          int64        `json:"comments"`
	TopComment        *CommentView `json:"topComment,omitempty"`
	Images            []string     `json:"images"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// AnonymousName replaces the author name on anonymous posts.
const AnonymousName = "Anonymous"

// recentBadges returns up to limit badges ordered most-recently earned first.
func recentBadges(badges []models.UserBadge, limit int) []models.UserBadge {
	sorted := make([]models.UserBadge, len(badges))
	copy(sorted, badges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EarnedAt.After(sorted[j].EarnedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// badgeSummary derives verification status and display rank from a user's
// badges. Verified means holding the verified-expert badge or any badge at
// PLATINUM or GOLD level. The rank comes from the highest-level badge; on a
// level tie the first-encountered badge wins.
func badgeSummary(badges []models.UserBadge) (verified bool, rankName, rankIcon string) {
	best := 0
	for _, ub := range badges {
		b := ub.Badge
		if b.ID == models.VerifiedExpertBadgeID {
			verified = true
		}
		switch b.Level {
		case models.BadgeLevelPlatinum, models.BadgeLevelGold:
			verified = true
		}
		if p := models.BadgeLevelPriority(b.Level); p > best {
			best = p
			rankName = b.Name
			rankIcon = b.Icon
		}
	}
	return verified, rankName, rankIcon
}

// NewAuthorView shapes the author block, collapsing identity for anonymous
// posts and considering only the three most-recently-earned badges.
func NewAuthorView(u *models.User, anonymous bool) AuthorView {
	if anonymous {
		return AuthorView{Name: AnonymousName}
	}
	badges := recentBadges(u.Badges, 3)
	verified, rankName, rankIcon := badgeSummary(badges)
	return AuthorView{
		ID:         u.ID,
		Name:       u.Username,
		AvatarURL:  u.AvatarURL,
		Profession: u.Profession,
		IsVerified: verified,
		RankName:   rankName,
		RankIcon:   rankIcon,
	}
}

// NewPostView assembles the client representation of a post from the loaded
// entity and its aggregate counts.
func NewPostView(p *models.Post, comments int64, upvotes, downvotes int64, userVote *string, topComment *CommentView) PostView {
	images := make([]string, 0, len(p.Attachments))
	for _, a := range p.Attachments {
		images = append(images, a.URL)
	}
	return PostView{
		ID:                p.ID,
		Content:           p.Content,
		TranslatedContent: p.TranslatedContent,
		Category:          p.Category.Name,
		CategoryIDs:       p.CategoryIDs,
		IsAnonymous:       p.IsAnonymous,
		IsPinned:          p.IsPinned,
		OriginalLanguage:  p.OriginalLanguage,
		Author:            NewAuthorView(&p.User, p.IsAnonymous),
		Upvotes:           upvotes,
		Downvotes:         downvotes,
		UserVote:          userVote,
		Comments:          comments,
		TopComment:        topComment,
		Images:            images,
		CreatedAt:         p.CreatedAt,
	}
}

// excludePrimary filters the primary name out of the secondary suggestions,
// case-insensitively.
func excludePrimary(secondary []string, primary string) []string {
	out := make([]string, 0, len(secondary))
	for _, name := range secondary {
		if !strings.EqualFold(name, primary) {
			out = append(out, name)
		}
	}
	return out
}
