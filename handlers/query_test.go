package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func testContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	c := testContext(t, "/posts")
	page, limit := parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	c = testContext(t, "/posts?page=3&limit=25")
	page, limit = parsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	// Garbage and out-of-range values fall back to defaults.
	c = testContext(t, "/posts?page=abc&limit=-5")
	page, limit = parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	c = testContext(t, "/posts?limit=5000")
	_, limit = parsePagination(c)
	assert.Equal(t, 100, limit)
}

func TestParseSort(t *testing.T) {
	allowed := map[string]bool{"createdAt": true, "content": true}

	fields, err := parseSort("", allowed)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, sortField{Field: "createdAt", Desc: true}, fields[0])

	fields, err = parseSort("-createdAt,content", allowed)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, sortField{Field: "createdAt", Desc: true}, fields[0])
	assert.Equal(t, sortField{Field: "content", Desc: false}, fields[1])

	_, err = parseSort("likes", allowed)
	assert.Error(t, err)

	_, err = parseSort("-createdAt,", allowed)
	assert.Error(t, err)

	// Unknown fields never pass through to the store.
	_, err = parseSort("$where", allowed)
	assert.Error(t, err)
}

func TestSortDoc(t *testing.T) {
	doc := sortDoc([]sortField{
		{Field: "createdAt", Desc: true},
		{Field: "content"},
	})
	assert.Equal(t, bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "content", Value: 1},
	}, doc)
}

func TestNewPagination(t *testing.T) {
	p := newPagination(1, 10, 0)
	assert.Equal(t, int64(0), p.Pages)

	p = newPagination(2, 10, 25)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, p)

	p = newPagination(1, 10, 30)
	assert.Equal(t, int64(3), p.Pages)

	p = newPagination(1, 7, 1)
	assert.Equal(t, int64(1), p.Pages)
}
