package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// PostCategories is the closed set accepted for Post.Category.
var PostCategories = []string{
	"Agriculture", "Technology", "Health", "Politics",
	"Entertainment", "Sports", "Education", "Fashion",
	"Food", "Travel",
}

// ValidPostCategory reports whether category is one of PostCategories.
func ValidPostCategory(category string) bool {
	for _, c := range PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Thumbnail   StoredFile         `bson:"thumbnail" json:"thumbnail"`
	Creator     primitive.ObjectID `bson:"creator" json:"creator"`
	CreatedAt   int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   int64              `bson:"updatedAt" json:"updatedAt"`
}
