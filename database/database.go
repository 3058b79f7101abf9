package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell-cms/inkwell/config"
)

var Client *mongo.Client
var Users *mongo.Collection
var Posts *mongo.Collection
var Articles *mongo.Collection

// Connect dials MongoDB, pings it and binds the collection globals.
func Connect(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}

	if err := Client.Ping(ctx, nil); err != nil {
		return err
	}

	db := Client.Database(cfg.MongoDB)
	Users = db.Collection("users")
	Posts = db.Collection("posts")
	Articles = db.Collection("articles")

	return nil
}

// EnsureIndexes creates the unique indexes backing email and slug
// uniqueness. Violations surface as duplicate key errors, see IsDuplicateKey.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = Articles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: unique,
	})
	return err
}

// IsDuplicateKey reports whether err is a uniqueness constraint violation.
// Callers use this to distinguish conflicts from other persistence failures.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func Disconnect() error {
	if Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return Client.Disconnect(ctx)
}
