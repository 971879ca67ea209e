package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/api/auth/signup", Signup)
	r.POST("/api/auth/login", Login)
	return r
}

func TestSignupRejectsBadPayloads(t *testing.T) {
	r := authRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing fields", `{"email":"a@b.com"}`},
		{"bad email", `{"firstName":"A","lastName":"B","passport":"123","email":"nope","password":"secret1","phone":"055","type":"Soldier"}`},
		{"short password", `{"firstName":"A","lastName":"B","passport":"123","email":"a@b.com","password":"abc","phone":"055","type":"Soldier"}`},
		{"unknown role", `{"firstName":"A","lastName":"B","passport":"123","email":"a@b.com","password":"secret1","phone":"055","type":"Wizard"}`},
		{"admin self-assign", `{"firstName":"A","lastName":"B","passport":"123","email":"a@b.com","password":"secret1","phone":"055","type":"Admin"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doPostsRequest(r, "POST", "/api/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginRejectsBadPayloads(t *testing.T) {
	r := authRouter(t)

	w := doPostsRequest(r, "POST", "/api/auth/login", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doPostsRequest(r, "POST", "/api/auth/login", "", `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
