package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ourschool/ourschool/internal/app/models"
	"github.com/ourschool/ourschool/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestMiddleware(tokenExp time.Duration) (*AuthMiddleware, *auth.JWTService) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: tokenExp,
		TokenIssuer:    "ourschool-test",
	})
	return NewAuthMiddleware(jwtService, nil), jwtService
}

func performRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	m, _ := newTestMiddleware(time.Hour)

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	m, _ := newTestMiddleware(time.Hour)

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	m, jwtService := newTestMiddleware(-time.Minute)

	token, _, err := jwtService.GenerateAccessToken(1, "parent", "admin")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestJWTAuthSetsIdentity(t *testing.T) {
	m, jwtService := newTestMiddleware(time.Hour)

	token, _, err := jwtService.GenerateAccessToken(7, "parent", "admin")
	require.NoError(t, err)

	var gotUserID int64
	var gotRole string
	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		gotUserID = c.GetInt64(ContextUserID)
		gotRole = c.GetString(ContextRole)
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotUserID)
	assert.Equal(t, "admin", gotRole)
}

func TestJWTAuthQuotedHeader(t *testing.T) {
	m, jwtService := newTestMiddleware(time.Hour)

	token, _, err := jwtService.GenerateAccessToken(7, "parent", "admin")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, map[string]string{"Authorization": "\"Bearer " + token + "\""})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleRequired(t *testing.T) {
	m, jwtService := newTestMiddleware(time.Hour)

	router := gin.New()
	router.GET("/protected", m.JWTAuth(), m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, _, err := jwtService.GenerateAccessToken(1, "parent", string(models.RoleAdmin))
	require.NoError(t, err)
	studentToken, _, err := jwtService.GenerateAccessToken(2, "kid", string(models.RoleStudent))
	require.NoError(t, err)

	w := performRequest(router, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, map[string]string{"Authorization": "Bearer " + studentToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIKeyOrJWTFallsBackToAdminJWT(t *testing.T) {
	m, jwtService := newTestMiddleware(time.Hour)

	router := gin.New()
	router.GET("/protected", m.APIKeyOrJWT(models.PermStudentsRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, _, err := jwtService.GenerateAccessToken(1, "parent", string(models.RoleAdmin))
	require.NoError(t, err)
	studentToken, _, err := jwtService.GenerateAccessToken(2, "kid", string(models.RoleStudent))
	require.NoError(t, err)

	w := performRequest(router, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, map[string]string{"Authorization": "Bearer " + studentToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
