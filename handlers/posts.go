package handlers

import (
	"context"
	"errors"
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var postSortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"content":   true,
}

type postWithAuthor struct {
	models.Post `bson:",inline"`
	Author      *models.User `bson:"author" json:"author"`
	LikesCount  int          `bson:"-" json:"likesCount"`
}

type commentWithAuthor struct {
	models.Comment `bson:",inline"`
	Author         *models.User `bson:"author" json:"author"`
	LikesCount     int          `bson:"-" json:"likesCount"`
}

type postDetail struct {
	models.Post   `bson:",inline"`
	Author        *models.User        `bson:"author" json:"author"`
	Comments      []commentWithAuthor `bson:"comments" json:"comments"`
	LikesCount    int                 `bson:"-" json:"likesCount"`
	CommentsCount int                 `bson:"-" json:"commentsCount"`
}

// authorLookup joins the users collection on authorId as a single "author"
// document, with the password projected out before it ever leaves the store.
func authorLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$project", Value: bson.D{{Key: "password", Value: 0}}}},
			}},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// ownershipFilter matches the document only when the caller is its author or
// an Admin. Embedding the check in the mutation filter makes authorization
// and mutation one atomic operation.
func ownershipFilter(id primitive.ObjectID, identity middleware.Identity) bson.M {
	return bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"authorId": identity.UserID},
			bson.M{"$expr": bson.M{"$eq": bson.A{string(identity.Role), string(models.RoleAdmin)}}},
		},
	}
}

// likeTogglePipeline flips the caller's membership in the likes array: remove
// when present, append when absent. Evaluated server-side in one update.
func likeTogglePipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: bson.D{
				{Key: "$cond", Value: bson.D{
					{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{userID, "$likes"}}}},
					{Key: "then", Value: bson.D{
						{Key: "$filter", Value: bson.D{
							{Key: "input", Value: "$likes"},
							{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
						}},
					}},
					{Key: "else", Value: bson.D{
						{Key: "$concatArrays", Value: bson.A{"$likes", bson.A{userID}}},
					}},
				}},
			}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
}

// findAuthor resolves the author for a freshly mutated document. A missing
// author resolves to nil, same as the lookup join.
func findAuthor(ctx context.Context, authorID primitive.ObjectID) (*models.User, error) {
	var author models.User
	err := database.Users.FindOne(
		ctx,
		bson.M{"_id": authorID},
		options.FindOne().SetProjection(bson.D{{Key: "password", Value: 0}}),
	).Decode(&author)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func fetchPostWithAuthor(ctx context.Context, id primitive.ObjectID) (*postWithAuthor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id}}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []postWithAuthor
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	posts[0].LikesCount = len(posts[0].Likes)
	return &posts[0], nil
}

type CreatePostRequest struct {
	Content string   `json:"content"`
	Media   []string `json:"media"`
}

func CreatePost(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Media == nil {
		req.Media = []string{}
	}

	// Author always comes from the token, never from the payload.
	post := models.Post{
		ID:        primitive.NewObjectID(),
		AuthorID:  identity.UserID,
		Content:   strings.TrimSpace(req.Content),
		Media:     req.Media,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if errs := post.Validate(); len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		log.Errorf("CreatePost insert: %v", err)
		respondInternal(c, "Error creating post")
		return
	}

	populated, err := fetchPostWithAuthor(ctx, post.ID)
	if err != nil {
		log.Errorf("CreatePost populate: %v", err)
		respondInternal(c, "Error creating post")
		return
	}

	c.JSON(http.StatusCreated, populated)
}

// listPosts backs both the feed and the per-author listing: one $facet
// aggregation returns the requested page and the total count in a single
// consistent read.
func listPosts(c *gin.Context, match bson.D) {
	page, limit := parsePagination(c)

	sortFields, err := parseSort(c.Query("sort"), postSortFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pageStages := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sortDoc(sortFields)}},
		{{Key: "$skip", Value: (page - 1) * limit}},
		{{Key: "$limit", Value: limit}},
	}
	pageStages = append(pageStages, authorLookup()...)

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "metadata", Value: mongo.Pipeline{
				{{Key: "$match", Value: match}},
				{{Key: "$count", Value: "total"}},
			}},
			{Key: "posts", Value: pageStages},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "posts", Value: 1},
			{Key: "total", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$metadata.total", 0}}}},
		}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Errorf("listPosts aggregate: %v", err)
		respondInternal(c, "Error fetching posts")
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		Posts []postWithAuthor `bson:"posts"`
		Total *int64           `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		log.Errorf("listPosts decode: %v", err)
		respondInternal(c, "Error fetching posts")
		return
	}

	posts := []postWithAuthor{}
	var total int64
	if len(results) > 0 {
		posts = results[0].Posts
		if results[0].Total != nil {
			total = *results[0].Total
		}
	}
	for i := range posts {
		posts[i].LikesCount = len(posts[i].Likes)
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": newPagination(page, limit, total),
	})
}

func GetAllPosts(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	match := bson.D{}
	if authorID := c.Query("authorId"); authorID != "" {
		id, err := primitive.ObjectIDFromHex(authorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid author ID format"})
			return
		}
		match = bson.D{{Key: "authorId", Value: id}}
	}

	listPosts(c, match)
}

func GetPostsByUserID(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID format"})
		return
	}

	listPosts(c, bson.D{{Key: "authorId", Value: userID}})
}

func GetPostByID(c *gin.Context) {
	if _, ok := ensureIdentity(c); !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: postID}}}},
	}
	pipeline = append(pipeline, authorLookup()...)

	// Comments join, each comment carrying its own joined author.
	commentPipeline := mongo.Pipeline{}
	commentPipeline = append(commentPipeline, authorLookup()...)
	pipeline = append(pipeline, bson.D{
		{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "comments"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "postId"},
			{Key: "pipeline", Value: commentPipeline},
			{Key: "as", Value: "comments"},
		}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		log.Errorf("GetPostByID aggregate: %v", err)
		respondInternal(c, "Error fetching post")
		return
	}
	defer cursor.Close(ctx)

	var posts []postDetail
	if err := cursor.All(ctx, &posts); err != nil {
		log.Errorf("GetPostByID decode: %v", err)
		respondInternal(c, "Error fetching post")
		return
	}
	if len(posts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}

	post := posts[0]
	post.LikesCount = len(post.Likes)
	post.CommentsCount = len(post.Comments)
	for i := range post.Comments {
		post.Comments[i].LikesCount = len(post.Comments[i].Likes)
	}

	c.JSON(http.StatusOK, post)
}

func TogglePostLike(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Respond from the returned document rather than re-reading, so a
	// concurrent delete cannot fail a toggle that already succeeded.
	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		likeTogglePipeline(identity.UserID),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if err != nil {
		log.Errorf("TogglePostLike update: %v", err)
		respondInternal(c, "Error toggling like")
		return
	}

	author, err := findAuthor(ctx, post.AuthorID)
	if err != nil {
		log.Errorf("TogglePostLike populate: %v", err)
		respondInternal(c, "Error toggling like")
		return
	}

	c.JSON(http.StatusOK, postWithAuthor{Post: post, Author: author, LikesCount: len(post.Likes)})
}

// UpdatePostRequest deliberately carries only the mutable fields, so a payload
// naming authorId or likes has nowhere to land.
type UpdatePostRequest struct {
	Content *string   `json:"content"`
	Media   *[]string `json:"media"`
}

func UpdatePost(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var errs []models.FieldError
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		errs = append(errs, models.ValidateContent(content)...)
		set = append(set, bson.E{Key: "content", Value: content})
	}
	if req.Media != nil {
		errs = append(errs, models.ValidateMedia(*req.Media)...)
		set = append(set, bson.E{Key: "media", Value: *req.Media})
	}
	if len(errs) > 0 {
		respondValidationErrors(c, errs)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOneAndUpdate(
		ctx,
		ownershipFilter(postID, identity),
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Not-found and not-yours are indistinguishable on purpose.
		c.JSON(http.StatusForbidden, gin.H{"message": "Post not found or not authorized to modify this post"})
		return
	}
	if err != nil {
		log.Errorf("UpdatePost update: %v", err)
		respondInternal(c, "Error updating post")
		return
	}

	author, err := findAuthor(ctx, post.AuthorID)
	if err != nil {
		log.Errorf("UpdatePost populate: %v", err)
		respondInternal(c, "Error updating post")
		return
	}

	c.JSON(http.StatusOK, postWithAuthor{Post: post, Author: author, LikesCount: len(post.Likes)})
}

func DeletePost(c *gin.Context) {
	identity, ok := ensureIdentity(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID format"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = database.Posts.FindOneAndDelete(ctx, ownershipFilter(postID, identity)).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Post not found or not authorized to delete this post"})
		return
	}
	if err != nil {
		log.Errorf("DeletePost delete: %v", err)
		respondInternal(c, "Error deleting post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
