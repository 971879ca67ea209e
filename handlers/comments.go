package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"notalone/database"
	"notalone/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var commentSortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"content":   true,
}

type commentDetail struct {
	models.Comment `bson:",inline"`
	Author         *models.User `bson:"author" json:"author"`
	Post           *models.Post `bson:"post" json:"post,omitempty"`
	LikesCount     int          `bson:"-" json:"likesCount"`
}

func postLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "posts"},
			{Key: "localField", Value: "postId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "post"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$post"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func fetchCommentDetail(ctx context.Context, id primitive.ObjectID, withPost bool) (*commentDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}
	pipeline = append(pipeline, authorLookup()...)
	if withPost {
		pipeline = append(pipeline, postLookup()...)
	}

	cursor, err := database.Comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []commentDetail
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	comments[0].LikesCount = len(comments[0].Likes)
	return &comments[0], nil
}

// GetAllComments is the Admin moderation view over the whole comment stream.
// Malformed postId/authorId filters are ignored rather than rejected, so the
// queue never errors out on a stale filter value.
func GetAllComments(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	page, limit := parsePagination(c)

	sortFields, err := parseSort(c.Query("sort"), commentSortFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match := bson.D{}
	if postID, err := primitive.ObjectIDFromHex(c.Query("postId")); err == nil {
		match = append(match, bson.E{Key: "postId", Value: postID})
	}
	if authorID, err := primitive.ObjectIDFromHex(c.Query("authorId")); err == nil {
		match = append(match, bson.E{Key: "authorId", Value: authorID})
	}

	pageStages := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sortDoc(sortFields)}},
		{{Key: "$skip", Value: (page - 1) * limit}},
		{{Key: "$limit", Value: limit}},
	}
	pageStages = append(pageStages, authorLookup()...)
	pageStages = append(pageStages, postLookup()...)

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "metadata", Value: mongo.Pipeline{
				{{Key: "$match", Value: match}},
				{{Key: "$count", Value: "total"}},
			}},
			{Key: "comments", Value: pageStages},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "comments", Value: 1},
			{Key: "total", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$metadata.total", 0}}}},
		}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Comments.Aggregate(ctx, pipeline)
	if err != nil {
		log.Errorf("GetAllComments aggregate: %v", err)
		respondInternal(c, "Error fetching comments")
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		Comments []commentDetail `bson:"comments"`
		Total    *int64          `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		log.Errorf("GetAllComments decode: %v", err)
		respondInternal(c, "Error fetching comments")
		return
	}

	comments := []commentDetail{}
	var total int64
	if len(results) > 0 {
		comments = results[0].Comments
		if results[0].Total != nil {
			total = *results[0].Total
		}
	}
	for i := range comments {
		comments[i].LikesCount = len(comments[i].Likes)
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   comments,
		"pagination": newPagination(page, limit, total),
	})
}

func GetCommentByID(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	comment, err := fetchCommentDetail(ctx, commentID, true)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	if err != nil {
		log.Errorf("GetCommentByID: %v", err)
		respondInternal(c, "Error fetching comment")
		return
	}

	c.JSON(http.StatusOK, comment)
}

type CreateCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

func CreateComment(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		AuthorID:  identity.UserID,
		Content:   strings.TrimSpace(req.Content),
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if errs := comment.Validate(); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
	if err != nil {
		log.Errorf("CreateComment post check: %v", err)
		respondInternal(c, "Error creating comment")
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		log.Errorf("CreateComment insert: %v", err)
		respondInternal(c, "Error creating comment")
		return
	}

	populated, err := fetchCommentDetail(ctx, comment.ID, true)
	if err != nil {
		log.Errorf("CreateComment populate: %v", err)
		respondInternal(c, "Error creating comment")
		return
	}

	c.JSON(http.StatusCreated, populated)
}

func ToggleCommentLike(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var comment models.Comment
	err = database.Comments.FindOneAndUpdate(
		ctx,
		bson.M{"_id": commentID},
		likeTogglePipeline(identity.UserID),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	if err != nil {
		log.Errorf("ToggleCommentLike update: %v", err)
		respondInternal(c, "Error toggling like")
		return
	}

	author, err := findAuthor(ctx, comment.AuthorID)
	if err != nil {
		log.Errorf("ToggleCommentLike populate: %v", err)
		respondInternal(c, "Error toggling like")
		return
	}

	c.JSON(http.StatusOK, commentDetail{Comment: comment, Author: author, LikesCount: len(comment.Likes)})
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

func UpdateComment(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content := strings.TrimSpace(req.Content)
	if errs := models.ValidateCommentContent(content); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var comment models.Comment
	err = database.Comments.FindOneAndUpdate(
		ctx,
		ownershipFilter(commentID, identity),
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "content", Value: content},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Comment not found or not authorized to modify this comment"})
		return
	}
	if err != nil {
		log.Errorf("UpdateComment update: %v", err)
		respondInternal(c, "Error updating comment")
		return
	}

	author, err := findAuthor(ctx, comment.AuthorID)
	if err != nil {
		log.Errorf("UpdateComment populate: %v", err)
		respondInternal(c, "Error updating comment")
		return
	}

	c.JSON(http.StatusOK, commentDetail{Comment: comment, Author: author, LikesCount: len(comment.Likes)})
}

func DeleteComment(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Comments.DeleteOne(ctx, ownershipFilter(commentID, identity))
	if err != nil {
		log.Errorf("DeleteComment delete: %v", err)
		respondInternal(c, "Error deleting comment")
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusForbidden, gin.H{"message": "Comment not found or not authorized to delete this comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
