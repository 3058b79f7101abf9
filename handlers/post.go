package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell-cms/inkwell/database"
	"github.com/inkwell-cms/inkwell/models"
	"github.com/inkwell-cms/inkwell/upload"
	"github.com/inkwell-cms/inkwell/utils"
)

// CreatePost inserts a post from a multipart form. The thumbnail is
// required; if the insert fails after the file was written, the file is
// rolled back so no orphan is left behind.
func CreatePost(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("category")
	description := c.PostForm("description")
	if title == "" || category == "" || description == "" {
		utils.Fail(c, http.StatusBadRequest, "Please enter all required fields")
		return
	}
	if !models.ValidPostCategory(category) {
		utils.Fail(c, http.StatusBadRequest, category+" is not a supported category")
		return
	}

	fh, err := c.FormFile("thumbnail")
	if err != nil {
		fh = nil
	}
	if err := imageValidator.Validate(fh); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	now := time.Now().Unix()
	post := models.Post{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Category:    category,
		Description: description,
		Creator:     userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = thumbnailStore.CommitNew(fh, func(f models.StoredFile) error {
		post.Thumbnail = f
		_, err := database.Posts.InsertOne(ctx, post)
		return err
	})
	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Sugar.Errorw("create post: thumbnail write failed", "error", err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to upload thumbnail")
			return
		}
		utils.Sugar.Errorw("create post: insert failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	// Post count on the creator, as a separate best-effort update.
	if _, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$inc": bson.M{"posts": 1}}); err != nil {
		utils.Sugar.Warnw("create post: post count not updated", "user", userID.Hex(), "error", err)
	}

	utils.Created(c, "Post created successfully", gin.H{"post": post})
}

// GetPosts lists posts newest-first with pagination and optional category,
// creator and title-substring filters.
func GetPosts(c *gin.Context) {
	page, limit := parsePageQuery(c)

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if creator := c.Query("creator"); creator != "" {
		creatorID, err := primitive.ObjectIDFromHex(creator)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Creator id is invalid")
			return
		}
		filter["creator"] = creatorID
	}
	if search := c.Query("search"); search != "" {
		filter["title"] = primitive.Regex{Pattern: escapeRegex(search), Options: "i"}
	}

	listPosts(c, filter, page, limit, "Get all posts successfully")
}

func GetPost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Post id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorw("get post failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Success(c, "Get post successfully", gin.H{"post": post})
}

func GetPostsByCategory(c *gin.Context) {
	category := c.Param("category")
	if !models.ValidPostCategory(category) {
		utils.Fail(c, http.StatusBadRequest, category+" is not a supported category")
		return
	}

	page, limit := parsePageQuery(c)
	listPosts(c, bson.M{"category": category}, page, limit, "Get all posts by category successfully")
}

func GetUserPosts(c *gin.Context) {
	creatorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "User id is invalid")
		return
	}

	page, limit := parsePageQuery(c)
	listPosts(c, bson.M{"creator": creatorID}, page, limit, "Get all posts by user successfully")
}

func listPosts(c *gin.Context, filter bson.M, page, limit int64, message string) {
	ctx, cancel := dbCtx()
	defer cancel()

	total, err := database.Posts.CountDocuments(ctx, filter)
	if err != nil {
		utils.Sugar.Errorw("list posts: count failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := database.Posts.Find(ctx, filter, opts)
	if err != nil {
		utils.Sugar.Errorw("list posts: find failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to decode posts")
		return
	}

	utils.Success(c, message, gin.H{
		"posts":      posts,
		"pagination": paginate(total, page, limit),
	})
}

// UpdatePost edits a post the authenticated user owns. A new thumbnail, when
// supplied, replaces the old file only after the record update persists.
// Concurrent updates to the same post race at the database layer; the last
// write wins.
func UpdatePost(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Post id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !isOwner(post.Creator, userID) {
		utils.Fail(c, http.StatusForbidden, "You are not authorized to update this post")
		return
	}

	title := c.PostForm("title")
	category := c.PostForm("category")
	description := c.PostForm("description")
	if title == "" || category == "" || description == "" {
		utils.Fail(c, http.StatusBadRequest, "Please enter all required fields")
		return
	}
	if !models.ValidPostCategory(category) {
		utils.Fail(c, http.StatusBadRequest, category+" is not a supported category")
		return
	}

	set := bson.M{
		"title":       title,
		"category":    category,
		"description": description,
		"updatedAt":   time.Now().Unix(),
	}

	persist := func() error {
		_, err := database.Posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": set})
		return err
	}

	fh, fhErr := c.FormFile("thumbnail")
	if fhErr == nil {
		if err := imageValidator.Validate(fh); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		_, err = thumbnailStore.ReplaceWith(fh, post.Thumbnail.StoredName, func(f models.StoredFile) error {
			set["thumbnail"] = f
			return persist()
		})
	} else {
		err = persist()
	}

	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Fail(c, http.StatusInternalServerError, "Failed to upload thumbnail")
			return
		}
		utils.Sugar.Errorw("update post failed", "post", postID.Hex(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to update post")
		return
	}

	var updated models.Post
	if err := database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&updated); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Success(c, "Post updated successfully", gin.H{"post": updated})
}

// DeletePost removes the thumbnail file first and only then the record. If
// the file delete fails the record is kept, so the record never points at a
// file this path removed.
func DeletePost(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Post id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !isOwner(post.Creator, userID) {
		utils.Fail(c, http.StatusForbidden, "You are not authorized to delete this post")
		return
	}

	err = thumbnailStore.DeleteWith(post.Thumbnail.StoredName, func() error {
		_, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID})
		return err
	})
	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Sugar.Errorw("delete post: thumbnail delete failed", "post", postID.Hex(), "error", err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to delete thumbnail")
			return
		}
		utils.Sugar.Errorw("delete post failed", "post", postID.Hex(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	if _, err := database.Users.UpdateOne(ctx,
		bson.M{"_id": userID, "posts": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"posts": -1}}); err != nil {
		utils.Sugar.Warnw("delete post: post count not updated", "user", userID.Hex(), "error", err)
	}

	utils.Success(c, "Post deleted successfully", nil)
}
