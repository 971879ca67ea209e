package handlers

import (
	"net/http"
	"testing"
	"time"

	"notalone/middleware"
	"notalone/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func commentsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetJWTSecret([]byte("test-secret-key"))

	r := gin.New()
	comments := r.Group("/api/comments", middleware.JWTAuth())
	comments.GET("/:commentId", middleware.RequireRole(), GetCommentByID)
	comments.POST("", CreateComment)
	comments.POST("/:commentId/like", ToggleCommentLike)
	comments.PUT("/:commentId", UpdateComment)
	comments.DELETE("/:commentId", DeleteComment)
	return r
}

func TestCommentsRequireAuthentication(t *testing.T) {
	r := commentsRouter(t)

	w := doPostsRequest(r, "POST", "/api/comments", "", `{"postId":"x","content":"hi"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommentsMalformedIdentifiers(t *testing.T) {
	r := commentsRouter(t)
	token := soldierToken(t)

	for _, route := range []struct{ method, url, body string }{
		{"POST", "/api/comments", `{"postId":"not-an-id","content":"hi"}`},
		{"POST", "/api/comments/not-an-id/like", ""},
		{"PUT", "/api/comments/not-an-id", `{"content":"hi"}`},
		{"DELETE", "/api/comments/not-an-id", ""},
	} {
		w := doPostsRequest(r, route.method, route.url, token, route.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, route.method+" "+route.url)
	}
}

func TestCommentModerationViewIsAdminOnly(t *testing.T) {
	r := commentsRouter(t)

	token, err := middleware.CreateToken(primitive.NewObjectID(), models.RoleSoldier, time.Hour)
	require.NoError(t, err)
	w := doPostsRequest(r, "GET", "/api/comments/"+primitive.NewObjectID().Hex(), token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateCommentValidation(t *testing.T) {
	r := commentsRouter(t)
	token := soldierToken(t)

	commentID := primitive.NewObjectID().Hex()
	w := doPostsRequest(r, "PUT", "/api/comments/"+commentID, token, `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "content")
}
