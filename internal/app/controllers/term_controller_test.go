package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/app/models/dto"
	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

type stubTermService struct {
	TermService

	createCalls int
	createTerm  *models.Term
	createErr   error
	deleteErr   error
}

func (s *stubTermService) Create(ctx context.Context, req *dto.CreateTermRequest) (*models.Term, error) {
	s.createCalls++
	return s.createTerm, s.createErr
}

func (s *stubTermService) Delete(ctx context.Context, id int64) error {
	return s.deleteErr
}

func TestTermCreateRejectsMalformedAcademicYear(t *testing.T) {
	svc := &stubTermService{}
	c := NewTermController(svc)

	for _, year := range []string{"garbage", "2025", "2025/2026", "2025-25"} {
		ctx, w := jsonContext(http.MethodPost, "/api/terms",
			`{"name":"Fall","academicYear":"`+year+`","startDate":"2026-08-15","endDate":"2026-12-18"}`)
		c.Create(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code, "academicYear %q should be rejected", year)
	}
	assert.Zero(t, svc.createCalls)
}

func TestTermCreateAcceptsValidRequest(t *testing.T) {
	svc := &stubTermService{createTerm: &models.Term{ID: 3, Name: "Fall"}}
	c := NewTermController(svc)

	ctx, w := jsonContext(http.MethodPost, "/api/terms",
		`{"name":"Fall","academicYear":"2026-2027","startDate":"2026-08-15","endDate":"2026-12-18"}`)
	c.Create(ctx)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.createCalls)
}

func TestTermDeleteConflictsWhenTermHasLinkedData(t *testing.T) {
	svc := &stubTermService{deleteErr: apperrors.ErrTermHasRelations}
	c := NewTermController(svc)

	ctx, w := testContext("/api/terms/4")
	ctx.Request.Method = http.MethodDelete
	ctx.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Delete(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)
}
