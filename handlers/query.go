package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

var paginationDefaultLimit = 10
var paginationMaxLimit = 100

// SetPaginationLimits overrides the default and maximum page sizes.
func SetPaginationLimits(defaultLimit, maxLimit int) {
	paginationDefaultLimit = defaultLimit
	paginationMaxLimit = maxLimit
}

// parsePagination reads page and limit from the query string. Absent or
// malformed values fall back to defaults; limit is clamped to the maximum.
func parsePagination(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = paginationDefaultLimit
	}
	if limit > paginationMaxLimit {
		limit = paginationMaxLimit
	}
	return page, limit
}

// sortField is one (field, direction) pair of a parsed sort expression.
type sortField struct {
	Field string
	Desc  bool
}

// parseSort turns "-createdAt,content" into an ordered field list. Fields not
// in the whitelist are rejected rather than passed through to the store.
func parseSort(raw string, allowed map[string]bool) ([]sortField, error) {
	if raw == "" {
		raw = "-createdAt"
	}

	var fields []sortField
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		desc := strings.HasPrefix(item, "-")
		name := strings.TrimPrefix(item, "-")
		if name == "" || !allowed[name] {
			return nil, fmt.Errorf("unknown sort field %q", name)
		}
		fields = append(fields, sortField{Field: name, Desc: desc})
	}
	return fields, nil
}

// sortDoc renders the parsed sort as a Mongo sort document, preserving order.
func sortDoc(fields []sortField) bson.D {
	doc := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: f.Field, Value: dir})
	}
	return doc
}
