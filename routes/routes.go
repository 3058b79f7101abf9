package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/config"
	"github.com/inkwell-cms/inkwell/handlers"
	"github.com/inkwell-cms/inkwell/middleware"
	"github.com/inkwell-cms/inkwell/utils"
)

func SetupRouter(cfg config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))

	// Uploaded files are served read-only from the configured base path.
	router.Static("/uploads", cfg.UploadBasePath)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Inkwell API is running",
			"time":    time.Now().Unix(),
		})
	})

	// Public routes
	router.POST("/api/register", handlers.Register)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/users", handlers.GetAuthors)
	router.GET("/api/users/:id", handlers.GetUser)
	router.GET("/api/users/:id/posts", handlers.GetUserPosts)
	router.GET("/api/posts", handlers.GetPosts)
	router.GET("/api/posts/categories/:category", handlers.GetPostsByCategory)
	router.GET("/api/posts/:postId", handlers.GetPost)
	router.GET("/api/articles", handlers.GetArticles)
	router.GET("/api/articles/:idOrSlug", handlers.GetArticle)

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.PATCH("/users/me", handlers.UpdateProfile)
	protected.POST("/users/me/avatar", handlers.ChangeAvatar)

	protected.POST("/posts", handlers.CreatePost)
	protected.PATCH("/posts/:postId", handlers.UpdatePost)
	protected.DELETE("/posts/:postId", handlers.DeletePost)

	protected.POST("/articles", handlers.CreateArticle)
	protected.PATCH("/articles/:articleId", handlers.UpdateArticle)
	protected.DELETE("/articles/:articleId", handlers.DeleteArticle)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			utils.Fail(c, http.StatusNotFound, "Not Found - "+c.Request.URL.Path)
			return
		}
		c.Next()
	})

	return router
}
