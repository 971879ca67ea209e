package handlers

import (
	"context"
	"net/http"
	"time"

	"notalone/database"
	"notalone/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func GetMyProfile(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": identity.UserID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Errorf("GetMyProfile: %v", err)
		respondInternal(c, "Error fetching profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfileRequest carries only the profile fields a user may edit.
// Identity fields (passport, email, phone, type) are fixed at signup.
type UpdateProfileRequest struct {
	Nickname             *string `json:"nickname"`
	Bio                  *string `json:"bio"`
	ProfileImage         *string `json:"profileImage"`
	ReceiveNotifications *bool   `json:"receiveNotifications"`
}

func UpdateMyProfile(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	set := bson.D{}
	if req.Nickname != nil {
		set = append(set, bson.E{Key: "nickname", Value: *req.Nickname})
	}
	if req.Bio != nil {
		set = append(set, bson.E{Key: "bio", Value: *req.Bio})
	}
	if req.ProfileImage != nil {
		set = append(set, bson.E{Key: "profileImage", Value: *req.ProfileImage})
	}
	if req.ReceiveNotifications != nil {
		set = append(set, bson.E{Key: "receiveNotifications", Value: *req.ReceiveNotifications})
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": identity.UserID},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Errorf("UpdateMyProfile: %v", err)
		respondInternal(c, "Error updating profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func GetUser(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		log.Errorf("GetUser: %v", err)
		respondInternal(c, "Error fetching user")
		return
	}

	c.JSON(http.StatusOK, user)
}
