package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"` // stored lower-cased, unique index
	Password  string             `bson:"password" json:"-"`
	Avatar    *StoredFile        `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Posts     int                `bson:"posts" json:"posts"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64              `bson:"updatedAt" json:"updatedAt"`
}
