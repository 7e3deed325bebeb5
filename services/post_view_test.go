package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/archalley/forum/models"
)

func userBadge(id, name, icon, level string, earned time.Time) models.UserBadge {
	return models.UserBadge{
		BadgeID:  id,
		EarnedAt: earned,
		Badge:    models.Badge{ID: id, Name: name, Icon: icon, Level: level},
	}
}

func TestBadgeSummaryVerifiedExpert(t *testing.T) {
	now := time.Now()
	badges := []models.UserBadge{
		userBadge(models.VerifiedExpertBadgeID, "Verified Expert", "check", models.BadgeLevelBronze, now),
	}
	verified, rankName, rankIcon := badgeSummary(badges)
	assert.True(t, verified)
	assert.Equal(t, "Verified Expert", rankName)
	assert.Equal(t, "check", rankIcon)
}

func TestBadgeSummaryHighLevelImpliesVerified(t *testing.T) {
	now := time.Now()
	for _, level := range []string{models.BadgeLevelGold, models.BadgeLevelPlatinum} {
		verified, _, _ := badgeSummary([]models.UserBadge{
			userBadge("some-badge", "Some Badge", "star", level, now),
		})
		assert.True(t, verified, level)
	}
	verified, _, _ := badgeSummary([]models.UserBadge{
		userBadge("some-badge", "Some Badge", "star", models.BadgeLevelSilver, now),
	})
	assert.False(t, verified)
}

func TestBadgeSummaryRankPicksHighestLevel(t *testing.T) {
	now := time.Now()
	badges := []models.UserBadge{
		userBadge("first-post", "First Post", "pencil", models.BadgeLevelBronze, now),
		userBadge("community-voice", "Community Voice", "megaphone", models.BadgeLevelGold, now),
		userBadge("prolific-contributor", "Prolific Contributor", "flame", models.BadgeLevelSilver, now),
	}
	_, rankName, rankIcon := badgeSummary(badges)
	assert.Equal(t, "Community Voice", rankName)
	assert.Equal(t, "megaphone", rankIcon)
}

func TestBadgeSummaryLevelTieKeepsFirst(t *testing.T) {
	now := time.Now()
	badges := []models.UserBadge{
		userBadge("badge-a", "Badge A", "a", models.BadgeLevelSilver, now),
		userBadge("badge-b", "Badge B", "b", models.BadgeLevelSilver, now),
	}
	_, rankName, _ := badgeSummary(badges)
	assert.Equal(t, "Badge A", rankName)
}

func TestNewAuthorViewAnonymous(t *testing.T) {
	u := models.User{ID: "u1", Username: "alice", AvatarURL: "http://a/img.png", Profession: "Architect"}
	view := NewAuthorView(&u, true)

	assert.Equal(t, AnonymousName, view.Name)
	assert.Empty(t, view.ID)
	assert.Empty(t, view.AvatarURL)
	assert.Empty(t, view.Profession)
	assert.False(t, view.IsVerified)
}

func TestNewAuthorViewConsidersThreeMostRecentBadges(t *testing.T) {
	now := time.Now()
	u := models.User{
		ID:       "u1",
		Username: "alice",
		Badges: []models.UserBadge{
			userBadge("old-gold", "Old Gold", "g", models.BadgeLevelGold, now.Add(-4*time.Hour)),
			userBadge("b1", "B1", "1", models.BadgeLevelBronze, now.Add(-1*time.Hour)),
			userBadge("b2", "B2", "2", models.BadgeLevelBronze, now.Add(-2*time.Hour)),
			userBadge("b3", "B3", "3", models.BadgeLevelBronze, now.Add(-3*time.Hour)),
		},
	}
	view := NewAuthorView(&u, false)

	// The gold badge earned longest ago falls outside the recent-three window.
	assert.False(t, view.IsVerified)
	assert.Equal(t, "B1", view.RankName)
}

func TestNewPostViewShapesImagesAndCategory(t *testing.T) {
	p := models.Post{
		ID:          "p1",
		Content:     "hello",
		CategoryIDs: models.StringList{"c1", "c2"},
		Category:    models.Category{ID: "c1", Name: "Design"},
		User:        models.User{ID: "u1", Username: "alice"},
		Attachments: []models.Attachment{
			{URL: "http://x/1.png"},
			{URL: "http://x/2.png"},
		},
	}
	vote := models.VoteUp
	view := NewPostView(&p, 3, 5, 1, &vote, nil)

	assert.Equal(t, "Design", view.Category)
	assert.Equal(t, []string{"c1", "c2"}, view.CategoryIDs)
	assert.Equal(t, []string{"http://x/1.png", "http://x/2.png"}, view.Images)
	assert.Equal(t, int64(3), view.Comments)
	assert.Equal(t, int64(5), view.Upvotes)
	assert.Equal(t, int64(1), view.Downvotes)
	assert.Equal(t, models.VoteUp, *view.UserVote)
	assert.Equal(t, "alice", view.Author.Name)
}

func TestExcludePrimaryCaseInsensitive(t *testing.T) {
	got := excludePrimary([]string{"design", "Business", "DESIGN"}, "Design")
	assert.Equal(t, []string{"Business"}, got)
}
