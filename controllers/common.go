package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archalley/forum/middleware"
	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// currentUserID returns the authenticated user's ID from the request context.
func currentUserID(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}

// failFromError maps service-layer errors onto the HTTP error taxonomy.
func failFromError(ctx *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		var details interface{}
		if len(verr.Fields) > 0 {
			details = verr.Fields
		}
		utils.FailWithDetails(ctx, http.StatusBadRequest, utils.CodeValidation, verr.Message, details)
		return
	}
	var prange *services.PageRangeError
	if errors.As(err, &prange) {
		utils.FailWithDetails(ctx, http.StatusNotFound, utils.CodeNotFound, "page exceeds available pages",
			gin.H{"pagination": prange.Pagination})
		return
	}

	switch {
	case errors.Is(err, services.ErrPostNotFound):
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "post not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "category not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
	case errors.Is(err, services.ErrRateLimited):
		utils.Fail(ctx, http.StatusTooManyRequests, utils.CodeRateLimited, "too many vote requests, slow down")
	case errors.Is(err, services.ErrVoteConflict):
		utils.Fail(ctx, http.StatusConflict, utils.CodeConflict, "conflicting vote, retry")
	case utils.IsConnectivityError(err):
		utils.Fail(ctx, http.StatusServiceUnavailable, utils.CodeServiceUnavailable, "store temporarily unavailable")
	default:
		utils.Sugar.Errorf("request failed: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, utils.CodeInternal, "internal error")
	}
}
