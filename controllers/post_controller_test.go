package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/middleware"
	"github.com/archalley/forum/services"
)

type stubPostWorkflow struct {
	created *services.PostView
	gotIn   services.CreatePostInput
}

func (s *stubPostWorkflow) Create(_ context.Context, _ string, in services.CreatePostInput) (*services.PostView, error) {
	s.gotIn = in
	return s.created, nil
}

func (s *stubPostWorkflow) List(_ context.Context, _ services.ListQuery) (*services.ListResult, error) {
	return &services.ListResult{}, nil
}

func newPostTestRouter(stub *stubPostWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pc := NewPostController(stub, cache.New(time.Minute, 100, time.Second))
	r := gin.New()
	r.POST("/api/posts", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, "user-1")
		pc.CreatePost(ctx)
	})
	return r
}

func TestCreatePostReturnsPostObject(t *testing.T) {
	stub := &stubPostWorkflow{created: &services.PostView{
		ID:       "post-1",
		Content:  "a new kitchen layout",
		Category: "Design",
		Upvotes:  0,
		Images:   []string{"https://cdn.example/a.png"},
	}}
	r := newPostTestRouter(stub)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("content", "a new kitchen layout"))
	require.NoError(t, form.WriteField("categoryId", "cat-design"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "post-1", rec.Header().Get("X-Post-Id"))
	assert.Equal(t, "true", rec.Header().Get("X-New-Post-Created"))

	// The body is the created post itself, not a wrapper around it.
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotContains(t, got, "post")
	assert.Equal(t, "post-1", got["id"])
	assert.Equal(t, "Design", got["category"])
	assert.Equal(t, float64(0), got["upvotes"])
	assert.Equal(t, []interface{}{"https://cdn.example/a.png"}, got["images"])
}
