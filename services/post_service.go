package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archalley/forum/ai"
	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/models"
	"github.com/archalley/forum/utils"
)

// RefineQueue accepts deferred AI refinement jobs. Enqueue must never block
// the caller; a false return means the job was dropped.
type RefineQueue interface {
	Enqueue(postID string, hasClientCategories bool) bool
}

// PostService implements the post creation and listing workflows.
type PostService struct {
	db         *gorm.DB
	classifier ai.Classifier
	cache      *cache.ResponseCache
	badges     *BadgeService
	notify     *NotifyService
	refine     RefineQueue
}

// NewPostService wires a PostService with its collaborators.
func NewPostService(db *gorm.DB, classifier ai.Classifier, rc *cache.ResponseCache, badges *BadgeService, notify *NotifyService, refine RefineQueue) *PostService {
	return &PostService{db: db, classifier: classifier, cache: rc, badges: badges, notify: notify, refine: refine}
}

// ImageUpload references an already-uploaded image by URL with an optional
// client-declared filename.
type ImageUpload struct {
	URL  string
	Name string
}

// CreatePostInput carries the validated form fields of a post submission.
type CreatePostInput struct {
	Content               string
	CategoryID            string
	IsAnonymous           bool
	Tags                  []string
	OriginalLanguage      string
	AISuggestedCategories []string
	Images                []ImageUpload
}

const (
	maxContentLength      = 10000
	maxTags               = 10
	maxClientAICategories = 5
	maxListPage           = 1000
	maxListLimit          = 100
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// isCategoryIdentifier accepts a UUID or a simple alphanumeric slug.
func isCategoryIdentifier(id string) bool {
	if _, err := uuid.Parse(id); err == nil {
		return true
	}
	return slugPattern.MatchString(id)
}

// Validate checks field constraints and normalizes defaults in place.
func (in *CreatePostInput) Validate() *ValidationError {
	fields := map[string]string{}
	trimmed := strings.TrimSpace(in.Content)
	if trimmed == "" {
		fields["content"] = "content must not be empty"
	} else if len(in.Content) > maxContentLength {
		fields["content"] = "content must be at most 10000 characters"
	}
	if in.CategoryID == "" || !isCategoryIdentifier(in.CategoryID) {
		fields["categoryId"] = "categoryId must be a UUID or slug"
	}
	if len(in.Tags) > maxTags {
		fields["tags"] = "at most 10 tags allowed"
	}
	if in.OriginalLanguage == "" {
		in.OriginalLanguage = models.DefaultLanguage
	} else if !models.IsSupportedLanguage(in.OriginalLanguage) {
		fields["originalLanguage"] = "unsupported language code"
	}
	if len(in.AISuggestedCategories) > maxClientAICategories {
		fields["aiSuggestedCategories"] = "at most 5 suggested categories allowed"
	}
	if len(fields) > 0 {
		return newValidationError("invalid post payload", fields)
	}
	return nil
}

// Create runs the post creation workflow: immediate category suggestion,
// one atomic transaction for the post row plus its auxiliary writes, an
// immediately consistent response, and non-blocking follow-up work.
func (s *PostService) Create(ctx context.Context, userID string, in CreatePostInput) (*PostView, error) {
	if verr := in.Validate(); verr != nil {
		return nil, verr
	}

	var primary models.Category
	if err := s.db.WithContext(ctx).First(&primary, "id = ?", in.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	idByName := make(map[string]string, len(categories))
	allNames := make([]string, 0, len(categories))
	for _, c := range categories {
		idByName[strings.ToLower(c.Name)] = c.ID
		allNames = append(allNames, c.Name)
	}
	resolve := func(names []string) []string {
		ids := make([]string, 0, len(names))
		for _, name := range names {
			if id, ok := idByName[strings.ToLower(name)]; ok {
				ids = append(ids, id)
			}
		}
		return ids
	}

	sugg := SuggestImmediate(ctx, s.classifier, in.Content, in.OriginalLanguage, in.AISuggestedCategories, primary.Name, allNames)

	aiNames := append([]string{sugg.Primary}, sugg.Secondary...)
	categoryIDs := models.BuildCategoryIDs(primary.ID, resolve(aiNames), resolve(in.AISuggestedCategories))

	translated := sugg.Translation
	if translated == "" {
		translated = in.Content
	}

	post := models.Post{
		UserID:                userID,
		Content:               in.Content,
		TranslatedContent:     translated,
		CategoryID:            primary.ID,
		CategoryIDs:           categoryIDs,
		IsAnonymous:           in.IsAnonymous,
		AIPrimaryCategory:     sugg.Primary,
		AISecondaryCategories: excludePrimary(sugg.Secondary, sugg.Primary),
		OriginalLanguage:      in.OriginalLanguage,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		// Counter and attachment failures are logged and ignored; they must
		// never roll back the post itself.
		for _, catID := range post.CategoryIDs {
			if err := incrementPostCount(tx, catID); err != nil {
				utils.Sugar.Warnf("post count increment failed category=%s post=%s: %v", catID, post.ID, err)
			}
		}
		for _, img := range in.Images {
			if img.URL == "" {
				continue
			}
			name := img.Name
			if name == "" {
				name = models.FilenameFromURL(img.URL)
			}
			att := models.Attachment{PostID: post.ID, URL: img.URL, Filename: name}
			if err := tx.Create(&att).Error; err != nil {
				utils.Sugar.Warnf("attachment create failed post=%s url=%s: %v", post.ID, img.URL, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var full models.Post
	if err := s.db.WithContext(ctx).
		Preload("User.Badges.Badge").
		Preload("Category").
		Preload("Attachments").
		First(&full, "id = ?", post.ID).Error; err != nil {
		return nil, err
	}
	var commentCount int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error; err != nil {
		return nil, err
	}
	view := NewPostView(&full, commentCount, 0, 0, nil, nil)

	// Follow-up work runs after the response is prepared and never blocks
	// or fails the request.
	if s.badges != nil {
		go s.badges.Recalculate(post.UserID)
	}
	if s.notify != nil {
		go s.notify.MentionsInPost(post.ID, post.UserID, post.Content)
	}
	if s.refine != nil {
		if !s.refine.Enqueue(post.ID, len(in.AISuggestedCategories) > 0) {
			utils.Sugar.Warnf("refinement queue full, post=%s skipped", post.ID)
		}
	}
	if s.cache != nil {
		s.cache.ClearDebounced()
	}

	return &view, nil
}

// incrementPostCount bumps a category's running post counter.
func incrementPostCount(tx *gorm.DB, categoryID string) error {
	return tx.Model(&models.Category{}).
		Where("id = ?", categoryID).
		UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
}

// ListQuery carries normalized listing parameters.
type ListQuery struct {
	Page      int
	Limit     int
	Category  string
	AuthorID  string
	SortBy    string
	SortOrder string
	ViewerID  string
}

// ListResult is the shaped listing payload.
type ListResult struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

var listSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"votes":      "", // sorted in application memory
}

// ValidateListQuery normalizes defaults and validates ranges and formats.
func ValidateListQuery(q *ListQuery) *ValidationError {
	fields := map[string]string{}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.SortBy == "" {
		q.SortBy = "created_at"
	}
	if q.SortOrder == "" {
		q.SortOrder = "desc"
	}
	if q.Page < 1 || q.Page > maxListPage {
		fields["page"] = "page must be between 1 and 1000"
	}
	if q.Limit < 1 || q.Limit > maxListLimit {
		fields["limit"] = "limit must be between 1 and 100"
	}
	if _, ok := listSortColumns[q.SortBy]; !ok {
		fields["sortBy"] = "unsupported sort field"
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		fields["sortOrder"] = "sortOrder must be asc or desc"
	}
	if q.Category != "" {
		if _, err := uuid.Parse(q.Category); err != nil {
			fields["category"] = "category must be a UUID"
		}
	}
	if q.AuthorID != "" {
		if _, err := uuid.Parse(q.AuthorID); err != nil {
			fields["authorId"] = "authorId must be a UUID"
		}
	}
	if len(fields) > 0 {
		return newValidationError("invalid listing parameters", fields)
	}
	return nil
}

type voteTally struct {
	up   int64
	down int64
}

// List executes the listing query against the primary store. Callers are
// expected to have consulted the response cache first.
func (s *PostService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if verr := ValidateListQuery(&q); verr != nil {
		return nil, verr
	}

	filter := func(db *gorm.DB) *gorm.DB {
		out := db
		if q.Category != "" {
			out = out.Where("category_id = ?", q.Category)
		}
		if q.AuthorID != "" {
			out = out.Where("user_id = ?", q.AuthorID)
		}
		return out
	}

	var total int64
	if err := filter(s.db.WithContext(ctx).Model(&models.Post{})).Count(&total).Error; err != nil {
		return nil, err
	}
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	if pages < 1 {
		pages = 1
	}
	pagination := Pagination{Total: total, Pages: pages, CurrentPage: q.Page, Limit: q.Limit}
	if q.Page > pages {
		return nil, &PageRangeError{Pagination: pagination}
	}

	var posts []models.Post
	base := filter(s.db.WithContext(ctx).
		Preload("User.Badges.Badge").
		Preload("Category").
		Preload("Attachments"))

	sortInMemory := q.SortBy == "votes"
	if sortInMemory {
		// Vote totals are not natively sortable in the query layer; fetch
		// the full filtered set and sort after aggregation.
		if err := base.Order("created_at DESC").Find(&posts).Error; err != nil {
			return nil, err
		}
	} else {
		order := listSortColumns[q.SortBy] + " " + strings.ToUpper(q.SortOrder)
		if err := base.Order(order).Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&posts).Error; err != nil {
			return nil, err
		}
	}

	postIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	var (
		wg           sync.WaitGroup
		tallies      map[string]voteTally
		viewerVotes  map[string]string
		commentTotal map[string]int64
		topComments  map[string]*CommentView
		errTallies   error
		errViewer    error
		errComments  error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		tallies, errTallies = s.postVoteTallies(ctx, postIDs)
	}()
	go func() {
		defer wg.Done()
		if q.ViewerID != "" {
			viewerVotes, errViewer = s.viewerVotes(ctx, q.ViewerID, postIDs)
		}
	}()
	go func() {
		defer wg.Done()
		commentTotal, topComments, errComments = s.topComments(ctx, postIDs)
	}()
	wg.Wait()
	for _, err := range []error{errTallies, errViewer, errComments} {
		if err != nil {
			return nil, err
		}
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		t := tallies[p.ID]
		var userVote *string
		if v, ok := viewerVotes[p.ID]; ok {
			vv := v
			userVote = &vv
		}
		views = append(views, NewPostView(p, commentTotal[p.ID], t.up, t.down, userVote, topComments[p.ID]))
	}

	if sortInMemory {
		asc := q.SortOrder == "asc"
		sort.SliceStable(views, func(i, j int) bool {
			vi := views[i].Upvotes - views[i].Downvotes
			vj := views[j].Upvotes - views[j].Downvotes
			if asc {
				return vi < vj
			}
			return vi > vj
		})
		start := (q.Page - 1) * q.Limit
		if start > len(views) {
			start = len(views)
		}
		end := start + q.Limit
		if end > len(views) {
			end = len(views)
		}
		views = views[start:end]
	}

	return &ListResult{Posts: views, Pagination: pagination}, nil
}

// postVoteTallies aggregates up/down counts per post.
func (s *PostService) postVoteTallies(ctx context.Context, postIDs []string) (map[string]voteTally, error) {
	tallies := make(map[string]voteTally, len(postIDs))
	if len(postIDs) == 0 {
		return tallies, nil
	}
	var rows []struct {
		PostID string
		Type   string
		Cnt    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("post_id, type, COUNT(*) AS cnt").
		Where("post_id IN ? AND comment_id = ''", postIDs).
		Group("post_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t := tallies[r.PostID]
		if r.Type == models.VoteUp {
			t.up = r.Cnt
		} else {
			t.down = r.Cnt
		}
		tallies[r.PostID] = t
	}
	return tallies, nil
}

// viewerVotes returns the viewer's own vote per post.
func (s *PostService) viewerVotes(ctx context.Context, viewerID string, postIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	if len(postIDs) == 0 {
		return out, nil
	}
	var votes []models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id IN ? AND comment_id = ''", viewerID, postIDs).
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		out[v.PostID] = v.Type
	}
	return out, nil
}

// topComments returns per-post comment totals and the comment with the
// highest combined vote activity. Ties keep the first comment encountered
// in creation order, and a lone comment qualifies even with zero votes.
func (s *PostService) topComments(ctx context.Context, postIDs []string) (map[string]int64, map[string]*CommentView, error) {
	totals := make(map[string]int64, len(postIDs))
	top := make(map[string]*CommentView, len(postIDs))
	if len(postIDs) == 0 {
		return totals, top, nil
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User.Badges.Badge").
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, nil, err
	}
	if len(comments) == 0 {
		return totals, top, nil
	}

	commentIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}
	var rows []struct {
		CommentID string
		Type      string
		Cnt       int64
	}
	err = s.db.WithContext(ctx).Model(&models.Vote{}).
		Select("comment_id, type, COUNT(*) AS cnt").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	commentTallies := make(map[string]voteTally, len(rows))
	for _, r := range rows {
		t := commentTallies[r.CommentID]
		if r.Type == models.VoteUp {
			t.up = r.Cnt
		} else {
			t.down = r.Cnt
		}
		commentTallies[r.CommentID] = t
	}

	bestActivity := make(map[string]int64, len(postIDs))
	for i := range comments {
		c := &comments[i]
		totals[c.PostID]++
		t := commentTallies[c.ID]
		activity := t.up + t.down
		if _, ok := top[c.PostID]; !ok || activity > bestActivity[c.PostID] {
			bestActivity[c.PostID] = activity
			view := CommentView{
				ID:        c.ID,
				Content:   c.Content,
				Author:    NewAuthorView(&c.User, false),
				Upvotes:   t.up,
				Downvotes: t.down,
				CreatedAt: c.CreatedAt,
			}
			top[c.PostID] = &view
		}
	}
	return totals, top, nil
}
