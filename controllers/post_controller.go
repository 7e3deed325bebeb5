package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// PostWorkflow is the slice of the service layer the post endpoints need.
type PostWorkflow interface {
	Create(ctx context.Context, userID string, in services.CreatePostInput) (*services.PostView, error)
	List(ctx context.Context, q services.ListQuery) (*services.ListResult, error)
}

// PostController exposes post creation and listing endpoints.
type PostController struct {
	posts PostWorkflow
	cache *cache.ResponseCache
}

// NewPostController creates a PostController.
func NewPostController(posts PostWorkflow, rc *cache.ResponseCache) *PostController {
	return &PostController{posts: posts, cache: rc}
}

// maxImagesPerPost bounds how many image references a single submission may carry.
const maxImagesPerPost = 10

// CreatePost handles multipart post submissions.
func (p *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	if err := ctx.Request.ParseMultipartForm(4 << 20); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "expected multipart form data")
		return
	}

	input := services.CreatePostInput{
		Content:          utils.Sanitize(ctx.PostForm("content")),
		CategoryID:       strings.TrimSpace(ctx.PostForm("categoryId")),
		IsAnonymous:      ctx.PostForm("isAnonymous") == "true",
		OriginalLanguage: strings.TrimSpace(ctx.PostForm("originalLanguage")),
	}
	if raw := ctx.PostForm("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Tags); err != nil {
			utils.FailWithDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid post payload",
				gin.H{"tags": "tags must be a JSON array of strings"})
			return
		}
	}
	if raw := ctx.PostForm("aiSuggestedCategories"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.AISuggestedCategories); err != nil {
			utils.FailWithDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid post payload",
				gin.H{"aiSuggestedCategories": "aiSuggestedCategories must be a JSON array of strings"})
			return
		}
	}
	for i := 0; i < maxImagesPerPost; i++ {
		url := strings.TrimSpace(ctx.PostForm(fmt.Sprintf("image%d_url", i)))
		if url == "" {
			break
		}
		input.Images = append(input.Images, services.ImageUpload{
			URL:  url,
			Name: strings.TrimSpace(ctx.PostForm(fmt.Sprintf("image%d_name", i))),
		})
	}

	view, err := p.posts.Create(ctx.Request.Context(), userID, input)
	if err != nil {
		failFromError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.Header("X-New-Post-Created", "true")
	ctx.Header("X-Post-Id", view.ID)
	ctx.Header("X-Post-Type", "forum")
	utils.JSON(ctx, http.StatusCreated, view)
}

// ListPosts serves the paginated listing through the response cache. A `_t`
// query parameter (cache-busting timestamp appended by clients) bypasses the
// cache entirely.
func (p *PostController) ListPosts(ctx *gin.Context) {
	q := services.ListQuery{
		Category:  strings.TrimSpace(ctx.Query("category")),
		AuthorID:  strings.TrimSpace(ctx.Query("authorId")),
		SortBy:    strings.TrimSpace(ctx.Query("sortBy")),
		SortOrder: strings.TrimSpace(ctx.Query("sortOrder")),
	}
	var parseErrs map[string]string
	parseInt := func(name string) int {
		raw := strings.TrimSpace(ctx.Query(name))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			if parseErrs == nil {
				parseErrs = map[string]string{}
			}
			parseErrs[name] = name + " must be an integer"
			return 0
		}
		return n
	}
	q.Page = parseInt("page")
	q.Limit = parseInt("limit")
	if parseErrs != nil {
		utils.FailWithDetails(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid listing parameters", parseErrs)
		return
	}
	if verr := services.ValidateListQuery(&q); verr != nil {
		failFromError(ctx, verr)
		return
	}
	if viewerID, ok := currentUserID(ctx); ok {
		q.ViewerID = viewerID
	}

	// Personalized and cache-busted requests skip the shared cache: the
	// stored payloads carry no viewer-specific fields.
	bypass := ctx.Query("_t") != "" || q.ViewerID != ""

	key := cache.Key(cache.ListParams{
		Page:      q.Page,
		Limit:     q.Limit,
		Category:  q.Category,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		AuthorID:  q.AuthorID,
	})

	if !bypass {
		if entry, state := p.cache.Get(key, ctx.GetHeader("If-None-Match")); entry != nil {
			ctx.Header("ETag", entry.ETag)
			ctx.Header("Cache-Control", "public, max-age=60")
			ctx.Header("X-Cache", state)
			if state == cache.StateHit304 {
				ctx.Status(http.StatusNotModified)
				return
			}
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", entry.Payload)
			return
		}
	}

	result, err := p.posts.List(ctx.Request.Context(), q)
	if err != nil {
		failFromError(ctx, err)
		return
	}

	if bypass {
		ctx.Header("Cache-Control", "no-store")
		ctx.Header("X-Cache", cache.StateMiss)
		utils.JSON(ctx, http.StatusOK, result)
		return
	}

	if etag := p.cache.Set(key, result); etag != "" {
		ctx.Header("ETag", etag)
	}
	ctx.Header("Cache-Control", "public, max-age=60")
	ctx.Header("X-Cache", cache.StateMiss)
	utils.JSON(ctx, http.StatusOK, result)
}
