package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"github.com/quillpost/quill/config"
	"github.com/quillpost/quill/controllers"
	_ "github.com/quillpost/quill/docs"
	"github.com/quillpost/quill/middleware"
	"github.com/quillpost/quill/utils"
)

// Dependencies are the long lived collaborators handed to the controllers.
// Redis may be nil; Images and Metrics default to no-op and fresh instances.
type Dependencies struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Tokens  *utils.JWTManager
	Images  utils.ImageStore
	Metrics *utils.Metrics
}

// SetupRouter wires routes, middlewares, and controllers.
// Every route is served at the root and mirrored under /api/v1.
func SetupRouter(cfg config.AppConfig, deps Dependencies) *gin.Engine {
	switch cfg.Gin.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Images == nil {
		deps.Images = utils.NopImageStore{}
	}
	if deps.Metrics == nil {
		deps.Metrics = utils.NewMetrics()
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	accessLog := utils.Logger
	if cfg.Gin.LogPath != "" {
		if gl, err := utils.NewRollingFileLogger(cfg.Gin.LogPath, cfg.Log); err == nil {
			accessLog = gl
		} else {
			utils.Sugar.Warnf("gin access log disabled: %v", err)
		}
	}
	r.Use(ginzap.GinzapWithConfig(accessLog, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("requestId", c.GetString(middleware.ContextRequestIDKey))}
		},
	}))
	r.Use(ginzap.CustomRecoveryWithZap(accessLog, true, func(c *gin.Context, _ any) {
		utils.Abort(c, http.StatusInternalServerError, 50000, "internal server error")
	}))
	r.Use(middleware.Metrics(deps.Metrics))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	r.GET("/api-docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.NewRateLimiter(deps.Redis, cfg.App.RateLimitPerMinute)
	registerAPI(r, deps, limiter)
	registerAPI(r.Group("/api/v1"), deps, limiter)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

func registerAPI(api gin.IRouter, deps Dependencies, limiter *middleware.RateLimiter) {
	authController := controllers.NewAuthController(deps.DB, deps.Tokens, deps.Metrics)
	postController := controllers.NewPostController(deps.DB, deps.Images, deps.Metrics)
	likeController := controllers.NewLikeController(deps.DB, deps.Metrics)
	commentController := controllers.NewCommentController(deps.DB, deps.Metrics)
	userController := controllers.NewUserController(deps.DB, deps.Metrics)
	statsController := controllers.NewStatsController(deps.DB)

	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)
	limit := limiter.Middleware()

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", limit, authController.Signup)
	authGroup.POST("/login", limit, authController.Login)
	authGroup.GET("/me", requireAuth, authController.Me)

	posts := api.Group("/posts")
	posts.GET("", optionalAuth, postController.ListPosts)
	posts.GET("/author", optionalAuth, postController.ListAuthorPosts)
	posts.GET("/:id", optionalAuth, postController.GetPost)
	posts.GET("/:id/likes", likeController.ListLikers)
	posts.POST("", requireAuth, limit, postController.CreatePost)
	posts.PUT("/:id", requireAuth, limit, postController.UpdatePost)
	posts.DELETE("/:id", requireAuth, limit, postController.DeletePost)
	posts.POST("/:id/like", requireAuth, limit, likeController.LikePost)
	posts.DELETE("/:id/like", requireAuth, limit, likeController.UnlikePost)

	comments := api.Group("/comments")
	comments.GET("/:postId", commentController.ListComments)
	comments.POST("", requireAuth, limit, commentController.CreateComment)
	comments.PUT("/:id", requireAuth, limit, commentController.UpdateComment)
	comments.DELETE("/:id", requireAuth, limit, commentController.DeleteComment)

	users := api.Group("/users")
	users.GET("/profile/:userId", optionalAuth, userController.GetProfile)
	users.GET("/suggestions/recommended", requireAuth, userController.Suggestions)
	users.GET("/:userId/followers", userController.ListFollowers)
	users.GET("/:userId/following", userController.ListFollowing)
	users.POST("/:userId/follow", requireAuth, limit, userController.Follow)
	users.DELETE("/:userId/follow", requireAuth, limit, userController.Unfollow)

	api.GET("/stats", statsController.GetStats)
}
