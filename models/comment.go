package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CommentMaxLen = 1000

type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID   `bson:"postId" json:"postId"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Content   string               `bson:"content" json:"content"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// ValidateCommentContent checks the comment body constraint shared by create
// and update.
func ValidateCommentContent(content string) []FieldError {
	var errs []FieldError

	content = strings.TrimSpace(content)
	if content == "" {
		errs = append(errs, FieldError{Field: "content", Message: "Content is required"})
	} else if utf8.RuneCountInString(content) > CommentMaxLen {
		errs = append(errs, FieldError{
			Field:   "content",
			Message: fmt.Sprintf("Content cannot exceed %d characters", CommentMaxLen),
		})
	}

	return errs
}

func (c *Comment) Validate() []FieldError {
	errs := ValidateCommentContent(c.Content)
	if c.PostID.IsZero() {
		errs = append(errs, FieldError{Field: "postId", Message: "Post ID is required"})
	}
	if c.AuthorID.IsZero() {
		errs = append(errs, FieldError{Field: "authorId", Message: "Author ID is required"})
	}
	return errs
}
