package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/middleware"
)

type stubActivityService struct {
	ActivityService

	recentStudentID *int64
	recentLimit     int
	recentDays      int
	recentItems     []dto.ActivityItem
	recentErr       error
}

func (s *stubActivityService) Recent(ctx context.Context, studentID *int64, limit, days int) ([]dto.ActivityItem, error) {
	s.recentStudentID = studentID
	s.recentLimit = limit
	s.recentDays = days
	return s.recentItems, s.recentErr
}

func TestRecentActivityScopesStudentsToThemselves(t *testing.T) {
	svc := &stubActivityService{}
	c := NewReportController(nil, svc)

	ctx, w := testContext("/api/activity/recent?limit=5&days=3")
	ctx.Set(middleware.ContextUserID, int64(42))
	ctx.Set(middleware.ContextRole, string(models.RoleStudent))
	c.RecentActivity(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.recentStudentID) {
		assert.Equal(t, int64(42), *svc.recentStudentID)
	}
	assert.Equal(t, 5, svc.recentLimit)
	assert.Equal(t, 3, svc.recentDays)
}

func TestRecentActivityAdminSeesAllStudents(t *testing.T) {
	svc := &stubActivityService{}
	c := NewReportController(nil, svc)

	ctx, w := testContext("/api/activity/recent")
	asAdmin(ctx, 1)
	c.RecentActivity(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.recentStudentID)
}
