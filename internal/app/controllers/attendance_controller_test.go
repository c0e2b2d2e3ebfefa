package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

// jsonContext builds a gin test context carrying a JSON request body.
func jsonContext(method, url, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx.Request = req
	return ctx, w
}

func asAdmin(ctx *gin.Context, userID int64) {
	ctx.Set(middleware.ContextUserID, userID)
	ctx.Set(middleware.ContextUsername, "admin")
	ctx.Set(middleware.ContextRole, string(models.RoleAdmin))
}

type stubAttendanceService struct {
	AttendanceService

	bulkCalls  int
	bulkResult *dto.BulkAttendanceResult
	bulkErr    error
}

func (s *stubAttendanceService) BulkRecord(ctx context.Context, createdBy int64, req *dto.BulkAttendanceRequest) (*dto.BulkAttendanceResult, error) {
	s.bulkCalls++
	return s.bulkResult, s.bulkErr
}

func TestBulkRecordRejectsUnknownStatus(t *testing.T) {
	svc := &stubAttendanceService{}
	c := NewAttendanceController(svc, nil)

	ctx, w := jsonContext(http.MethodPost, "/api/attendance/bulk",
		`{"date":"2026-03-02","records":[{"studentId":1,"status":"bogus"}]}`)
	asAdmin(ctx, 1)
	c.BulkRecord(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.bulkCalls)
}

func TestBulkRecordRejectsEmptyRecords(t *testing.T) {
	svc := &stubAttendanceService{}
	c := NewAttendanceController(svc, nil)

	ctx, w := jsonContext(http.MethodPost, "/api/attendance/bulk",
		`{"date":"2026-03-02","records":[]}`)
	asAdmin(ctx, 1)
	c.BulkRecord(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.bulkCalls)
}

func TestBulkRecordRejectsBadDate(t *testing.T) {
	svc := &stubAttendanceService{}
	c := NewAttendanceController(svc, nil)

	ctx, w := jsonContext(http.MethodPost, "/api/attendance/bulk",
		`{"date":"03/02/2026","records":[{"studentId":1,"status":"present"}]}`)
	asAdmin(ctx, 1)
	c.BulkRecord(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.bulkCalls)
}

func TestBulkRecordSuccess(t *testing.T) {
	svc := &stubAttendanceService{bulkResult: &dto.BulkAttendanceResult{Created: 2}}
	c := NewAttendanceController(svc, nil)

	ctx, w := jsonContext(http.MethodPost, "/api/attendance/bulk",
		`{"date":"2026-03-02","records":[{"studentId":1,"status":"present"},{"studentId":2,"status":"late"}]}`)
	asAdmin(ctx, 1)
	c.BulkRecord(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.bulkCalls)

	var resp dto.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Data)
}
