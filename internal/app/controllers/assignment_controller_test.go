package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

type stubAssignmentService struct {
	AssignmentService

	assignReq    *dto.AssignRequest
	assignResult *dto.AssignResult
	assignErr    error
}

func (s *stubAssignmentService) Assign(ctx context.Context, req *dto.AssignRequest) (*dto.AssignResult, error) {
	s.assignReq = req
	return s.assignResult, s.assignErr
}

func TestAssignRequiresActiveTerm(t *testing.T) {
	svc := &stubAssignmentService{assignErr: apperrors.ErrNoActiveTerm}
	c := NewAssignmentController(svc)

	ctx, w := jsonContext(http.MethodPost, "/api/assignments/assign",
		`{"templateId":7,"studentIds":[1,2],"dueDate":"2026-09-04"}`)
	asAdmin(ctx, 1)
	c.Assign(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignSuccess(t *testing.T) {
	svc := &stubAssignmentService{
		assignResult: &dto.AssignResult{Assigned: 2, Created: []int64{10, 11}},
	}
	c := NewAssignmentController(svc)

	ctx, w := jsonContext(http.MethodPost, "/api/assignments/assign",
		`{"templateId":7,"studentIds":[1,2],"dueDate":"2026-09-04"}`)
	asAdmin(ctx, 1)
	c.Assign(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.NotNil(t, svc.assignReq) {
		assert.Equal(t, int64(7), svc.assignReq.TemplateID)
		assert.Equal(t, []int64{1, 2}, svc.assignReq.StudentIDs)
	}
}

func TestAssignRejectsMalformedDueDate(t *testing.T) {
	svc := &stubAssignmentService{}
	c := NewAssignmentController(svc)

	ctx, w := jsonContext(http.MethodPost, "/api/assignments/assign",
		`{"templateId":7,"studentIds":[1],"dueDate":"next tuesday"}`)
	asAdmin(ctx, 1)
	c.Assign(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.assignReq)
}
