package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// VoteController exposes the vote toggle and read endpoints.
type VoteController struct {
	votes *services.VoteService
}

func NewVoteController(votes *services.VoteService) *VoteController {
	return &VoteController{votes: votes}
}

// ToggleVote applies an UP or DOWN vote on a post for the current user.
func (v *VoteController) ToggleVote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.CodeValidation, "invalid request payload")
		return
	}

	result, err := v.votes.Toggle(ctx.Request.Context(), userID, ctx.Param("id"), req.Type)
	if err != nil {
		failFromError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "no-store")
	utils.JSON(ctx, http.StatusOK, gin.H{
		"upvotes":   result.Upvotes,
		"downvotes": result.Downvotes,
		"userVote":  result.UserVote,
		"success":   true,
	})
}

// GetVotes returns a post's current vote totals. The viewer's own vote is
// included when the request carries a valid token.
func (v *VoteController) GetVotes(ctx *gin.Context) {
	viewerID, _ := currentUserID(ctx)
	result, err := v.votes.Counts(ctx.Request.Context(), ctx.Param("id"), viewerID)
	if err != nil {
		failFromError(ctx, err)
		return
	}
	utils.JSON(ctx, http.StatusOK, gin.H{
		"upvotes":   result.Upvotes,
		"downvotes": result.Downvotes,
		"userVote":  result.UserVote,
		"success":   true,
	})
}
