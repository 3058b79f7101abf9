package handlers

import (
	"context"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/config"
	"github.com/inkwell-cms/inkwell/upload"
	"github.com/inkwell-cms/inkwell/utils"
)

// Shared upload plumbing across all handler files. One validator, one store
// per entity directory, configured once at startup.
var (
	imageValidator upload.Validator
	thumbnailStore *upload.Store
	coverStore     *upload.Store
	avatarStore    *upload.Store
)

// Init wires the upload validator and per-entity stores from configuration.
func Init(cfg config.Config, log *zap.SugaredLogger) error {
	imageValidator = upload.Validator{
		AllowedTypes: cfg.AllowedImageTypes,
		MaxBytes:     cfg.MaxImageBytes,
	}

	var err error
	if thumbnailStore, err = upload.NewStore(cfg.UploadBasePath, cfg.ThumbnailDir, log); err != nil {
		return err
	}
	if coverStore, err = upload.NewStore(cfg.UploadBasePath, cfg.CoverDir, log); err != nil {
		return err
	}
	if avatarStore, err = upload.NewStore(cfg.UploadBasePath, cfg.AvatarDir, log); err != nil {
		return err
	}
	return nil
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination is returned alongside every list result.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	Limit       int64 `json:"limit"`
}

// parsePageQuery reads page/limit query parameters with defaults and caps.
func parsePageQuery(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)), 10, 64)
	return normalizePage(page, limit)
}

func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// paginate computes the pagination envelope; totalPages is ceil(total/limit).
func paginate(total, page, limit int64) Pagination {
	return Pagination{
		Total:       total,
		TotalPages:  int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Limit:       limit,
	}
}

// requestUserID resolves the authenticated user id set by the auth
// middleware. A failure here means a broken token, not a missing one.
func requestUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// isOwner reports whether the authenticated identity owns the record.
func isOwner(owner, user primitive.ObjectID) bool {
	return owner == user
}

// dbCtx returns the per-request database context.
func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// escapeRegex neutralizes regex metacharacters in user supplied search
// terms; search is a plain case-insensitive substring match.
func escapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}
