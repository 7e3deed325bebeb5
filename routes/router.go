package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/archalley/forum/cache"
	"github.com/archalley/forum/config"
	"github.com/archalley/forum/controllers"
	"github.com/archalley/forum/middleware"
	"github.com/archalley/forum/services"
	"github.com/archalley/forum/utils"
)

// Deps carries the wired collaborators the router hands to controllers.
type Deps struct {
	DB       *gorm.DB
	Cache    *cache.ResponseCache
	Posts    *services.PostService
	Votes    *services.VoteService
	Comments *services.CommentService
	Exports  *services.ExportService
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "If-None-Match"},
		ExposeHeaders:    []string{"Content-Length", "ETag", "X-Cache", "X-New-Post-Created", "X-Post-Id", "X-Post-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.JSON(ctx, http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(d.DB)
	postController := controllers.NewPostController(d.Posts, d.Cache)
	voteController := controllers.NewVoteController(d.Votes)
	commentController := controllers.NewCommentController(d.Comments)
	exportController := controllers.NewExportController(d.Exports)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", middleware.OptionalAuth(), postController.ListPosts)
	postsGroup.GET("/:id/vote", middleware.OptionalAuth(), voteController.GetVotes)
	postsGroup.GET("/:id/comments/count", commentController.CountComments)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/posts", postController.CreatePost)
	protected.POST("/posts/:id/vote", voteController.ToggleVote)
	protected.POST("/posts/:id/comments", commentController.CreateComment)
	protected.POST("/users/:id/export-zip-data", exportController.ExportMyData)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, utils.CodeNotFound, "route not found")
	})

	return r
}
