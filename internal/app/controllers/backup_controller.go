package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// BackupController handles full-system snapshots
type BackupController struct {
	backupService BackupService
}

// NewBackupController creates a new BackupController
func NewBackupController(backupService BackupService) *BackupController {
	return &BackupController{backupService: backupService}
}

// Export downloads a full snapshot
// @Summary Export a backup
// @Description Downloads a JSON snapshot of every entity. Password hashes and API key secrets are never included.
// @Tags backup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BackupDocument "Snapshot"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/backup/export [get]
func (c *BackupController) Export(ctx *gin.Context) {
	doc, err := c.backupService.Export(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := "ourschool-backup-" + time.Now().Format("2006-01-02") + ".json"
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.JSON(200, doc)
}

// Import restores a snapshot
// @Summary Import a backup
// @Description Restores entities from a snapshot. Existing rows are kept; colliding snapshot rows are skipped. Restored accounts get a random password pending an admin reset.
// @Tags backup
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BackupDocument true "Snapshot"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Unsupported format version"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/backup/import [post]
func (c *BackupController) Import(ctx *gin.Context) {
	var doc dto.BackupDocument
	if !bindJSON(ctx, &doc) {
		return
	}

	result, err := c.backupService.Import(ctx, &doc)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}
