package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// PointsController handles the student points system
type PointsController struct {
	pointsService PointsService
}

// NewPointsController creates a new PointsController
func NewPointsController(pointsService PointsService) *PointsController {
	return &PointsController{pointsService: pointsService}
}

// Status reports whether points are enabled
// @Summary Points system status
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PointsStatus} "Status retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/status [get]
func (c *PointsController) Status(ctx *gin.Context) {
	enabled, err := c.pointsService.Enabled(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.PointsStatus{Enabled: enabled})
}

// GetBalance retrieves a student's balance
// @Summary Get a student's points balance
// @Tags points
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentPoints} "Balance retrieved"
// @Failure 400 {object} dto.ErrorResponse "Points system disabled"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only view their own balance"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/balance/{studentId} [get]
func (c *PointsController) GetBalance(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	if !c.allowStudentAccess(ctx, studentID) {
		return
	}

	balance, err := c.pointsService.GetBalance(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, balance)
}

// Adjust awards or deducts points
// @Summary Adjust a student's points
// @Description Awards points for a positive amount, deducts for a negative one. The balance never goes below zero.
// @Tags points
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdjustPointsRequest true "Adjustment"
// @Success 200 {object} dto.APIResponse{data=models.StudentPoints} "Points adjusted"
// @Failure 400 {object} dto.ErrorResponse "Balance would go negative"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/adjust [post]
func (c *PointsController) Adjust(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.AdjustPointsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	balance, err := c.pointsService.Adjust(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, balance)
}

// Spend lets a student spend from their own balance
// @Summary Spend points
// @Tags points
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SpendPointsRequest true "Amount and reason"
// @Success 200 {object} dto.APIResponse{data=models.StudentPoints} "Points spent"
// @Failure 400 {object} dto.ErrorResponse "Insufficient balance"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/spend [post]
func (c *PointsController) Spend(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SpendPointsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	balance, err := c.pointsService.Spend(ctx, userID, req.Amount, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, balance)
}

// GetTransactions lists a student's points ledger
// @Summary List points transactions
// @Tags points
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param limit query int false "Max rows (default 50, max 100)"
// @Success 200 {object} dto.APIResponse{data=[]models.PointTransaction} "Transactions retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students may only view their own ledger"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/transactions/{studentId} [get]
func (c *PointsController) GetTransactions(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}
	if !c.allowStudentAccess(ctx, studentID) {
		return
	}

	transactions, err := c.pointsService.GetTransactions(ctx, studentID, queryInt(ctx, "limit", 0))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, transactions)
}

// Overview summarizes all balances for admins
// @Summary Points overview
// @Tags points
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PointsOverview} "Overview retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/overview [get]
func (c *PointsController) Overview(ctx *gin.Context) {
	overview, err := c.pointsService.Overview(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, overview)
}

// allowStudentAccess restricts student callers to their own records.
func (c *PointsController) allowStudentAccess(ctx *gin.Context, studentID int64) bool {
	if isAdmin(ctx) {
		return true
	}
	userID, ok := currentUserID(ctx)
	if !ok {
		return false
	}
	if userID != studentID {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// Toggle enables or disables the points system
// @Summary Toggle the points system
// @Tags points
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TogglePointsRequest true "Desired state"
// @Success 200 {object} dto.APIResponse{data=dto.PointsStatus} "Points system toggled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /points/toggle [post]
func (c *PointsController) Toggle(ctx *gin.Context) {
	var req dto.TogglePointsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.pointsService.SetEnabled(ctx, *req.Enabled); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.PointsStatus{Enabled: *req.Enabled})
}
