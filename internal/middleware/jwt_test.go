package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-yt/eventhub/internal/auth"
	"github.com/ankit-yt/eventhub/pkg/response"
)

func protectedRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(svc)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			response.Internal(c, "user id missing from context")
			return
		}
		response.OK(c, gin.H{"user_id": id.String()})
	})
	r.GET("/secure", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("s", 1))
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("s", 1))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("s", 1))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer nope").Code)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	svc := auth.NewJWTService("s", 1)
	token, err := svc.Generate(uuid.New(), "x@y.z", "student")
	require.NoError(t, err)

	r := protectedRouter(svc)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)
}

func TestRequireRoleForbidsStudent(t *testing.T) {
	svc := auth.NewJWTService("s", 1)
	token, err := svc.Generate(uuid.New(), "x@y.z", "student")
	require.NoError(t, err)

	r := protectedRouter(svc, RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+token).Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	svc := auth.NewJWTService("s", 1)
	token, err := svc.Generate(uuid.New(), "x@y.z", "admin")
	require.NoError(t, err)

	r := protectedRouter(svc, RequireRole("admin"))
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)
}
