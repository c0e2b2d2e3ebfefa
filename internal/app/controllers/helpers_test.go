package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(url string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, url, nil)
	return ctx, w
}

func TestParseIDParam(t *testing.T) {
	ctx, _ := testContext("/students/12")
	ctx.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := parseIDParam(ctx, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	ctx, w := testContext("/students/abc")
	ctx.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok = parseIDParam(ctx, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ctx, w = testContext("/students/0")
	ctx.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = parseIDParam(ctx, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurrentUserID(t *testing.T) {
	ctx, _ := testContext("/")
	ctx.Set(middleware.ContextUserID, int64(5))
	id, ok := currentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	creator := int64(9)
	ctx, _ = testContext("/")
	ctx.Set(middleware.ContextAPIKey, &models.APIKey{CreatedBy: &creator})
	id, ok = currentUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)

	ctx, w := testContext("/")
	_, ok = currentUserID(ctx)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIsAdmin(t *testing.T) {
	ctx, _ := testContext("/")
	ctx.Set(middleware.ContextRole, string(models.RoleAdmin))
	assert.True(t, isAdmin(ctx))

	ctx, _ = testContext("/")
	ctx.Set(middleware.ContextRole, string(models.RoleStudent))
	assert.False(t, isAdmin(ctx))

	ctx, _ = testContext("/")
	ctx.Set(middleware.ContextAPIKey, &models.APIKey{})
	assert.True(t, isAdmin(ctx))

	ctx, _ = testContext("/")
	assert.False(t, isAdmin(ctx))
}

func TestQueryHelpers(t *testing.T) {
	ctx, _ := testContext("/list?studentId=3&limit=50&status=present&fromDate=2025-09-01&badDate=tomorrow")

	if assert.NotNil(t, queryInt64(ctx, "studentId")) {
		assert.Equal(t, int64(3), *queryInt64(ctx, "studentId"))
	}
	assert.Nil(t, queryInt64(ctx, "missing"))

	assert.Equal(t, 50, queryInt(ctx, "limit", 20))
	assert.Equal(t, 20, queryInt(ctx, "missing", 20))

	if assert.NotNil(t, queryString(ctx, "status")) {
		assert.Equal(t, "present", *queryString(ctx, "status"))
	}
	assert.Nil(t, queryString(ctx, "missing"))

	if assert.NotNil(t, queryDate(ctx, "fromDate")) {
		assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), *queryDate(ctx, "fromDate"))
	}
	assert.Nil(t, queryDate(ctx, "badDate"))
	assert.Nil(t, queryDate(ctx, "missing"))
}
