package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// CommentController exposes comment creation and counting endpoints.
type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// CreateComment adds a comment to a post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	view, err := c.comments.Create(ctx.Request.Context(), userID, ctx.Param("id"), utils.Sanitize(req.Content))
	if err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusCreated, gin.H{"comment": view, "success": true})
}

// CountComments returns how many comments a post has.
func (c *CommentController) CountComments(ctx *gin.Context) {
	postID := ctx.Param("id")
	count, err := c.comments.Count(ctx.Request.Context(), postID)
	if err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusOK, gin.H{"postId": postID, "count": count, "success": true})
}
