package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContentMinLen = 1
	ContentMaxLen = 2000
	MaxMediaItems = 10
)

type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Content   string               `bson:"content" json:"content"`
	Media     []string             `bson:"media" json:"media"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// FieldError is a single schema violation, reported per field on writes.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateContent checks the post body constraint. Content is trimmed before
// the length check.
func ValidateContent(content string) []FieldError {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < ContentMinLen {
		return []FieldError{{Field: "content", Message: "Content is required"}}
	}
	if utf8.RuneCountInString(content) > ContentMaxLen {
		return []FieldError{{
			Field:   "content",
			Message: fmt.Sprintf("Content cannot exceed %d characters", ContentMaxLen),
		}}
	}
	return nil
}

func ValidateMedia(media []string) []FieldError {
	if len(media) > MaxMediaItems {
		return []FieldError{{
			Field:   "media",
			Message: fmt.Sprintf("Cannot exceed %d media items", MaxMediaItems),
		}}
	}
	return nil
}

func (p *Post) Validate() []FieldError {
	errs := append(ValidateContent(p.Content), ValidateMedia(p.Media)...)
	if p.AuthorID.IsZero() {
		errs = append(errs, FieldError{Field: "authorId", Message: "Author ID is required"})
	}
	return errs
}
