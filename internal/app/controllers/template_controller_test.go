package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/pkg/apperrors"
)

type stubTemplateService struct {
	TemplateService

	archivedID int64
	archiveErr error
}

func (s *stubTemplateService) Archive(ctx context.Context, id int64) error {
	s.archivedID = id
	return s.archiveErr
}

func TestTemplateArchive(t *testing.T) {
	svc := &stubTemplateService{}
	c := NewTemplateController(svc)

	ctx, w := testContext("/api/assignments/templates/9/archive")
	ctx.Request.Method = http.MethodPost
	ctx.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Archive(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.archivedID)
}

func TestTemplateArchiveNotFound(t *testing.T) {
	svc := &stubTemplateService{archiveErr: apperrors.ErrTemplateNotFound}
	c := NewTemplateController(svc)

	ctx, w := testContext("/api/assignments/templates/9/archive")
	ctx.Request.Method = http.MethodPost
	ctx.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Archive(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
