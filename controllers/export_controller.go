package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// ExportController serves the user data export download.
type ExportController struct {
	exports *services.ExportService
}

func NewExportController(exports *services.ExportService) *ExportController {
	return &ExportController{exports: exports}
}

// ExportMyData streams a ZIP archive of the current user's contributions.
// Only the owner can download their archive.
func (e *ExportController) ExportMyData(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}
	if target := ctx.Param("id"); target != "" && target != userID {
		utils.Fail(ctx, http.StatusForbidden, utils.CodeForbidden, "you can only export your own data")
		return
	}

	archive, filename, err := e.exports.Export(ctx.Request.Context(), userID)
	if err != nil {
		failFromError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "application/zip", archive)
}
