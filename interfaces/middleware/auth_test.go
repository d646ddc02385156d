package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mytube/infrastructure/configuration"
	"mytube/infrastructure/utils"
	"mytube/interfaces/middleware"
)

const testSecret = "MyStrongTestSecret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth())
	router.Use(middleware.ClientID())
	router.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString(middleware.ContextUserID),
			"client_id": c.GetString(middleware.ContextClientID),
		})
	})
	return router
}

func TestAuth_AnonymousPassesThrough(t *testing.T) {
	configuration.C.Supabase.JWTSecret = testSecret
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	issued := w.Header().Get(middleware.ClientIDHeader)
	assert.NotEmpty(t, issued, "anonymous visitors get a client handle")
}

func TestAuth_ValidTokenSetsUserID(t *testing.T) {
	configuration.C.Supabase.JWTSecret = testSecret
	router := newTestRouter()

	token, err := utils.GenerateToken(map[string]interface{}{"sub": "u1", "email": "u1@example.com"}, testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, w.Body.String(), `"client_id":"u1"`, "signed-in clients are keyed by the token subject")
}

func TestAuth_MalformedTokenRejected(t *testing.T) {
	configuration.C.Supabase.JWTSecret = testSecret
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "That's not even a token")
}

func TestAuth_WrongSecretRejected(t *testing.T) {
	configuration.C.Supabase.JWTSecret = testSecret
	router := newTestRouter()

	token, err := utils.GenerateToken(map[string]interface{}{"sub": "u1"}, "some-other-secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClientID_HeaderIsSticky(t *testing.T) {
	configuration.C.Supabase.JWTSecret = testSecret
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(middleware.ClientIDHeader, "anon-42")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"client_id":"anon-42"`)
	assert.Equal(t, "anon-42", w.Header().Get(middleware.ClientIDHeader))
}
