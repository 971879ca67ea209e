package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"notalone/database"
	"notalone/middleware"
	"notalone/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var tokenTTL = 24 * time.Hour

// SetTokenTTL sets the lifetime of issued bearer tokens.
func SetTokenTTL(ttl time.Duration) {
	tokenTTL = ttl
}

type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Passport  string `json:"passport" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone" binding:"required"`
	Type      string `json:"type" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(req.Type)
	if !role.Valid() || role == models.RoleAdmin {
		// Admin accounts are provisioned out of band, never self-assigned.
		respondValidationErrors(c, []models.FieldError{
			{Field: "type", Message: "Invalid user type"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := database.Users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"passport": req.Passport},
		bson.M{"phone": req.Phone},
	}})
	if err != nil {
		log.Errorf("Signup duplicate check: %v", err)
		respondInternal(c, "Error creating user")
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email, passport or phone already in use"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("Signup hash: %v", err)
		respondInternal(c, "Error creating user")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Passport:  req.Passport,
		Email:     email,
		Password:  string(hashed),
		Phone:     req.Phone,
		Type:      role,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email, passport or phone already in use"})
			return
		}
		log.Errorf("Signup insert: %v", err)
		respondInternal(c, "Error creating user")
		return
	}

	token, err := middleware.CreateToken(user.ID, user.Type, tokenTTL)
	if err != nil {
		log.Errorf("Signup token: %v", err)
		respondInternal(c, "Error creating user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		log.Errorf("Login lookup: %v", err)
		respondInternal(c, "Error logging in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.CreateToken(user.ID, user.Type, tokenTTL)
	if err != nil {
		log.Errorf("Login token: %v", err)
		respondInternal(c, "Error logging in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
