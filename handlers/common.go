package handlers

import (
	"net/http"

	"notalone/middleware"
	"notalone/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// SetLogger wires the application logger into the handlers package.
func SetLogger(logger *zap.Logger) {
	log = logger.Sugar()
}

// ensureIdentity resolves the authenticated caller or answers 401. Handlers
// call it first and thread the returned value through explicitly.
func ensureIdentity(c *gin.Context) (middleware.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return middleware.Identity{}, false
	}
	return identity, true
}

func respondValidationErrors(c *gin.Context, errs []models.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

func respondInternal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}

// Pagination is the metadata block returned alongside every paginated list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func newPagination(page, limit int, total int64) Pagination {
	pages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
