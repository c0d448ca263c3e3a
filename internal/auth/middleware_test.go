package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbt-server/internal/token"
)

func newGateRouter(t *testing.T, tokens *token.Service) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reached := false
	router := gin.New()
	router.GET("/protected", RequireAuth(tokens), func(c *gin.Context) {
		reached = true
		claims, ok := ClaimsFrom(c)
		require.True(t, ok, "claims missing from context")
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject})
	})
	return router, &reached
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens := token.NewService("secret", time.Hour, time.Hour)
	router, reached := newGateRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *reached, "handler must not run without credentials")
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	tokens := token.NewService("secret", time.Hour, time.Hour)
	router, reached := newGateRouter(t, tokens)

	for _, header := range []string{"Basic abc123", "Bearer", "token-without-scheme"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.False(t, *reached)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tokens := token.NewService("secret", time.Hour, time.Hour)
	tok, err := tokens.Issue(token.Identity{UserID: "u1", Role: "student"}, token.TypeAccess)
	require.NoError(t, err)

	tokens.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	router, reached := newGateRouter(t, tokens)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	assert.False(t, *reached)
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	tokens := token.NewService("secret", time.Hour, time.Hour)
	other := token.NewService("other-secret", time.Hour, time.Hour)
	tok, err := other.Issue(token.Identity{UserID: "u1"}, token.TypeAccess)
	require.NoError(t, err)

	router, reached := newGateRouter(t, tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "TOKEN_EXPIRED")
	assert.False(t, *reached)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := token.NewService("secret", time.Hour, time.Hour)
	tok, err := tokens.Issue(token.Identity{UserID: "u42", Username: "jdoe", Role: "student"}, token.TypeAccess)
	require.NoError(t, err)

	router, reached := newGateRouter(t, tokens)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *reached)
	assert.Contains(t, w.Body.String(), "u42")
}

func TestBootstrapAdmin(t *testing.T) {
	admin, err := NewBootstrapAdmin("superadmin", "superadmin123")
	require.NoError(t, err)

	assert.True(t, admin.Authenticate("superadmin", "superadmin123"))
	assert.False(t, admin.Authenticate("superadmin", "wrong"))
	assert.False(t, admin.Authenticate("someone", "superadmin123"))

	_, err = NewBootstrapAdmin("", "")
	assert.Error(t, err)
}
