package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell-cms/inkwell/database"
	"github.com/inkwell-cms/inkwell/models"
	"github.com/inkwell-cms/inkwell/upload"
	"github.com/inkwell-cms/inkwell/utils"
)

// parseTags accepts either a JSON array or a comma separated list.
func parseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			out := make([]string, 0, len(tags))
			for _, t := range tags {
				if t = strings.TrimSpace(t); t != "" {
					out = append(out, t)
				}
			}
			return out
		}
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CreateArticle inserts an article from a multipart form. The cover image is
// optional; when present and the insert fails (including a duplicate slug),
// the written file is rolled back.
func CreateArticle(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	excerpt := c.PostForm("excerpt")
	tags := c.PostForm("tags")
	status := c.PostForm("status")
	if title == "" || content == "" || excerpt == "" || tags == "" {
		utils.Fail(c, http.StatusBadRequest, "Please enter all required fields")
		return
	}
	if status == "" {
		status = models.ArticleStatusDraft
	}
	if !models.ValidArticleStatus(status) {
		utils.Fail(c, http.StatusBadRequest, "Status must be draft or published")
		return
	}

	articleSlug := slug.Make(title)

	ctx, cancel := dbCtx()
	defer cancel()

	count, err := database.Articles.CountDocuments(ctx, bson.M{"slug": articleSlug})
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		utils.Fail(c, http.StatusBadRequest, "An article with this title already exists")
		return
	}

	now := time.Now().Unix()
	article := models.Article{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      articleSlug,
		Content:   utils.Sanitize(content),
		Excerpt:   utils.Sanitize(excerpt),
		Tags:      parseTags(tags),
		Author:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insert := func() error {
		_, err := database.Articles.InsertOne(ctx, article)
		return err
	}

	fh, fhErr := c.FormFile("coverImage")
	if fhErr == nil {
		if err := imageValidator.Validate(fh); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		_, err = coverStore.CommitNew(fh, func(f models.StoredFile) error {
			article.CoverImage = &f
			return insert()
		})
	} else {
		err = insert()
	}

	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Sugar.Errorw("create article: cover write failed", "error", err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to upload cover image")
			return
		}
		// Unique slug index backstops the pre-check under concurrent creates.
		if database.IsDuplicateKey(err) {
			utils.Fail(c, http.StatusBadRequest, "Duplicate article slug. Please use a different title.")
			return
		}
		utils.Sugar.Errorw("create article: insert failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to create article")
		return
	}

	utils.Created(c, "Article created successfully", gin.H{"article": article})
}

// GetArticles lists articles newest-first with pagination and optional
// status, tag and search filters. Search matches title or slug.
func GetArticles(c *gin.Context) {
	page, limit := parsePageQuery(c)

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.ValidArticleStatus(status) {
			utils.Fail(c, http.StatusBadRequest, "Status must be draft or published")
			return
		}
		filter["status"] = status
	}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}
	if search := c.Query("search"); search != "" {
		re := primitive.Regex{Pattern: escapeRegex(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"slug": re},
		}
	}

	ctx, cancel := dbCtx()
	defer cancel()

	total, err := database.Articles.CountDocuments(ctx, filter)
	if err != nil {
		utils.Sugar.Errorw("list articles: count failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := database.Articles.Find(ctx, filter, opts)
	if err != nil {
		utils.Sugar.Errorw("list articles: find failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Failed to decode articles")
		return
	}

	utils.Success(c, "Get all articles successfully", gin.H{
		"articles":   articles,
		"pagination": paginate(total, page, limit),
	})
}

// GetArticle fetches an article by ObjectID or by slug. Reads of published
// articles bump the view count; the bump is best effort.
func GetArticle(c *gin.Context) {
	key := c.Param("idOrSlug")

	filter := bson.M{"slug": key}
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		filter = bson.M{"_id": id}
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var article models.Article
	err := database.Articles.FindOne(ctx, filter).Decode(&article)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorw("get article failed", "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if article.Status == models.ArticleStatusPublished {
		if _, err := database.Articles.UpdateOne(ctx, bson.M{"_id": article.ID},
			bson.M{"$inc": bson.M{"viewCount": 1}}); err != nil {
			utils.Sugar.Warnw("get article: view count not updated", "article", article.ID.Hex(), "error", err)
		} else {
			article.ViewCount++
		}
	}

	utils.Success(c, "Get article successfully", gin.H{"article": article})
}

// UpdateArticle edits an article the authenticated user owns. The slug is
// re-derived only when the title changed, and the collision check excludes
// the article itself. Last write wins on concurrent updates.
func UpdateArticle(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	articleID, err := primitive.ObjectIDFromHex(c.Param("articleId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Article id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var article models.Article
	err = database.Articles.FindOne(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !isOwner(article.Author, userID) {
		utils.Fail(c, http.StatusForbidden, "You are not authorized to update this article")
		return
	}

	set := bson.M{"updatedAt": time.Now().Unix()}

	if title := c.PostForm("title"); title != "" && title != article.Title {
		newSlug := slug.Make(title)
		if newSlug != article.Slug {
			count, err := database.Articles.CountDocuments(ctx, bson.M{
				"slug": newSlug,
				"_id":  bson.M{"$ne": articleID},
			})
			if err != nil {
				utils.Fail(c, http.StatusInternalServerError, "Database error")
				return
			}
			if count > 0 {
				utils.Fail(c, http.StatusBadRequest, "An article with this title already exists")
				return
			}
			set["slug"] = newSlug
		}
		set["title"] = title
	}
	if content := c.PostForm("content"); content != "" {
		set["content"] = utils.Sanitize(content)
	}
	if excerpt := c.PostForm("excerpt"); excerpt != "" {
		set["excerpt"] = utils.Sanitize(excerpt)
	}
	if tags := c.PostForm("tags"); tags != "" {
		set["tags"] = parseTags(tags)
	}
	if status := c.PostForm("status"); status != "" {
		if !models.ValidArticleStatus(status) {
			utils.Fail(c, http.StatusBadRequest, "Status must be draft or published")
			return
		}
		set["status"] = status
	}

	persist := func() error {
		_, err := database.Articles.UpdateOne(ctx, bson.M{"_id": articleID}, bson.M{"$set": set})
		return err
	}

	fh, fhErr := c.FormFile("coverImage")
	if fhErr == nil {
		if err := imageValidator.Validate(fh); err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		oldName := ""
		if article.CoverImage != nil {
			oldName = article.CoverImage.StoredName
		}
		_, err = coverStore.ReplaceWith(fh, oldName, func(f models.StoredFile) error {
			set["coverImage"] = f
			return persist()
		})
	} else {
		err = persist()
	}

	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Fail(c, http.StatusInternalServerError, "Failed to upload cover image")
			return
		}
		if database.IsDuplicateKey(err) {
			utils.Fail(c, http.StatusBadRequest, "Duplicate article slug. Please use a different title.")
			return
		}
		utils.Sugar.Errorw("update article failed", "article", articleID.Hex(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to update article")
		return
	}

	var updated models.Article
	if err := database.Articles.FindOne(ctx, bson.M{"_id": articleID}).Decode(&updated); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	utils.Success(c, "Article updated successfully", gin.H{"article": updated})
}

// DeleteArticle removes the cover image first (when there is one) and only
// then the record. A missing cover image skips straight to the record
// delete; a failed cover delete aborts before the record is touched.
func DeleteArticle(c *gin.Context) {
	userID, ok := requestUserID(c)
	if !ok {
		return
	}

	articleID, err := primitive.ObjectIDFromHex(c.Param("articleId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Article id is invalid")
		return
	}

	ctx, cancel := dbCtx()
	defer cancel()

	var article models.Article
	err = database.Articles.FindOne(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err == mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !isOwner(article.Author, userID) {
		utils.Fail(c, http.StatusForbidden, "You are not authorized to delete this article")
		return
	}

	coverName := ""
	if article.CoverImage != nil {
		coverName = article.CoverImage.StoredName
	}

	err = coverStore.DeleteWith(coverName, func() error {
		_, err := database.Articles.DeleteOne(ctx, bson.M{"_id": articleID})
		return err
	})
	if err != nil {
		if errors.Is(err, upload.ErrStore) {
			utils.Sugar.Errorw("delete article: cover delete failed", "article", articleID.Hex(), "error", err)
			utils.Fail(c, http.StatusInternalServerError, "Failed to delete cover image")
			return
		}
		utils.Sugar.Errorw("delete article failed", "article", articleID.Hex(), "error", err)
		utils.Fail(c, http.StatusInternalServerError, "Failed to delete article")
		return
	}

	utils.Success(c, "Article deleted successfully", nil)
}
