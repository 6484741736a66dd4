package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revistas_backend/internal/authz"
	"revistas_backend/internal/models"
	"revistas_backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(tokens *utils.TokenManager, action authz.Action) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/protected", AuthMiddleware(tokens), RequireCapability(action), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "requestId": c.GetString(utils.RequestIDKey)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-test-secret", time.Hour)
	userToken, err := tokens.GenerateAccessToken(7, "joao", models.RoleUser, nil)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAccessToken(1, "admin", models.RoleAdmin, nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		action     authz.Action
		wantStatus int
	}{
		{name: "missing header", action: authz.ActionCatalogRead, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", action: authz.ActionCatalogRead, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", action: authz.ActionCatalogRead, wantStatus: http.StatusUnauthorized},
		{name: "user reads catalog", header: "Bearer " + userToken, action: authz.ActionCatalogRead, wantStatus: http.StatusOK},
		{name: "user views report", header: "Bearer " + userToken, action: authz.ActionReportView, wantStatus: http.StatusForbidden},
		{name: "admin views report", header: "bearer " + adminToken, action: authz.ActionReportView, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newTestEngine(tokens, tt.action).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"message"`)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-test-secret", time.Hour)
	token, err := tokens.GenerateAccessToken(7, "joao", models.RoleUser, nil)
	require.NoError(t, err)
	engine := newTestEngine(tokens, authz.ActionCatalogRead)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	_, err = uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}
