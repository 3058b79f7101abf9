package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// ValidArticleStatus reports whether status is draft or published.
func ValidArticleStatus(status string) bool {
	return status == ArticleStatusDraft || status == ArticleStatusPublished
}

type Article struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"` // unique index
	Content    string             `bson:"content" json:"content"`
	Excerpt    string             `bson:"excerpt" json:"excerpt"`
	Tags       []string           `bson:"tags" json:"tags"`
	CoverImage *StoredFile        `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Author     primitive.ObjectID `bson:"author" json:"author"`
	Status     string             `bson:"status" json:"status"`
	ViewCount  int64              `bson:"viewCount" json:"viewCount"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt  int64              `bson:"updatedAt" json:"updatedAt"`
}
