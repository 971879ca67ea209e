package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notalone/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func authTestRouter(t *testing.T) (*gin.Engine, *Identity) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetJWTSecret([]byte("test-secret-key"))

	var captured Identity
	r := gin.New()
	r.GET("/ping", JWTAuth(), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		require.True(t, ok)
		captured = identity
		c.String(http.StatusOK, "pong")
	})
	return r, &captured
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthRoundTrip(t *testing.T) {
	r, captured := authTestRouter(t)

	userID := primitive.NewObjectID()
	token, err := CreateToken(userID, models.RoleSoldier, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, models.RoleSoldier, captured.Role)
	assert.False(t, captured.IsAdmin())
}

func TestJWTAuthRejections(t *testing.T) {
	r, _ := authTestRouter(t)

	tests := []struct {
		name   string
		header func() string
	}{
		{"missing header", func() string { return "" }},
		{"not bearer", func() string { return "Basic abc" }},
		{"garbage token", func() string { return "Bearer not.a.token" }},
		{"expired", func() string {
			token, err := CreateToken(primitive.NewObjectID(), models.RoleSoldier, -time.Minute)
			require.NoError(t, err)
			return "Bearer " + token
		}},
		{"wrong secret", func() string {
			SetJWTSecret([]byte("other-secret"))
			token, err := CreateToken(primitive.NewObjectID(), models.RoleSoldier, time.Hour)
			require.NoError(t, err)
			SetJWTSecret([]byte("test-secret-key"))
			return "Bearer " + token
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header())
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthRejectsUnknownRole(t *testing.T) {
	r, _ := authTestRouter(t)

	// A token carrying a role outside the enum must not authenticate, even
	// with a valid signature.
	token, err := CreateToken(primitive.NewObjectID(), models.Role("Superuser"), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func roleGateRouter(t *testing.T, roles ...models.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetJWTSecret([]byte("test-secret-key"))

	r := gin.New()
	r.GET("/gated", JWTAuth(), RequireRole(roles...), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRequireRole(t *testing.T) {
	r := roleGateRouter(t, models.RoleSoldier, models.RoleMunicipality)

	cases := []struct {
		role models.Role
		want int
	}{
		{models.RoleSoldier, http.StatusOK},
		{models.RoleMunicipality, http.StatusOK},
		{models.RoleAdmin, http.StatusOK}, // Admin passes every gate
		{models.RoleDonor, http.StatusForbidden},
		{models.RoleBusiness, http.StatusForbidden},
	}

	for _, tc := range cases {
		token, err := CreateToken(primitive.NewObjectID(), tc.role, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/gated", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, string(tc.role))
	}
}

func TestRequireRoleAdminOnly(t *testing.T) {
	// No roles listed means only Admin gets through.
	r := roleGateRouter(t)

	token, err := CreateToken(primitive.NewObjectID(), models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	token, err = CreateToken(primitive.NewObjectID(), models.RoleSoldier, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
