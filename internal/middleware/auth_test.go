package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(ctx context.Context, claims *util.Claims) bool {
	return r[claims.ID]
}

func token(t *testing.T, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Username: "alice", Email: "alice@example.com", Role: role}
	user.ID = 7
	tok, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	claims, err := util.ParseJWT(tok, secret)
	require.NoError(t, err)
	return tok, claims
}

func newRouter(revoked revokedSet, roles ...model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(secret, revoked)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r *gin.Engine, header, query string) int {
	req := httptest.NewRequest(http.MethodGet, "/x"+query, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	tok, claims := token(t, model.Student)
	revoked := revokedSet{}
	r := newRouter(revoked)

	assert.Equal(t, http.StatusOK, do(r, "Bearer "+tok, ""))
	assert.Equal(t, http.StatusOK, do(r, "", "?token="+tok))
	assert.Equal(t, http.StatusUnauthorized, do(r, "", ""))
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer garbage", ""))

	other, err := util.GenerateJWT(&model.User{}, "another-secret-another-secret-123", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+other, ""))

	revoked[claims.ID] = true
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+tok, ""))
}

func TestRoleMiddleware(t *testing.T) {
	student, _ := token(t, model.Student)
	admin, _ := token(t, model.Admin)
	r := newRouter(nil, model.Admin)

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+student, ""))
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+admin, ""))
}
