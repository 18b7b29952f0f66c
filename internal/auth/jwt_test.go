package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "artefacthub-test",
		Duration: time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTestTokens()
	u := &User{ID: "u1", Username: "ada", Email: "ada@example.com"}

	token, exp, err := ts.Sign(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "artefacthub-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := newTestTokens()
	token, _, err := ts.Sign(&User{ID: "u1", Username: "ada"})
	require.NoError(t, err)

	other := newTestTokens()
	other.Secret = []byte("a-different-secret")
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ts := newTestTokens()
	ts.Duration = -time.Minute

	token, _, err := ts.Sign(&User{ID: "u1", Username: "ada"})
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	ts := newTestTokens()
	_, err := ts.Parse("not.a.token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := newTestTokens()

	r := gin.New()
	r.Use(AuthMiddleware(ts))
	r.GET("/me", func(c *gin.Context) {
		claims := MustGetClaims(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})

	token, _, err := ts.Sign(&User{ID: "u1", Username: "ada"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"mangled token", "Bearer " + token + "x", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
