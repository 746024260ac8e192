package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"phPortfolio/internal/api/middleware"
	"phPortfolio/internal/auth"
	"phPortfolio/internal/config"
	"phPortfolio/internal/database"
	"phPortfolio/internal/portfolio"
	"phPortfolio/internal/storage"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	stores := portfolio.NewStores(db)
	builder := portfolio.NewBuilder(db, stores, logger)
	notifier := NewRevalidateNotifier(asynqClient, logger)

	portfolioHandler := NewPortfolioHandler(builder, redisClient, cfg.Cache.SnapshotTTL())
	authHandler := NewAuthHandler(db, authService, redisClient, logger,
		cfg.Auth.LoginRateLimitPerHour, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL(), cfg.Auth.CookieDomain)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.Origins())
	assetHandler := NewAssetHandler(storageClient, redisClient, logger,
		cfg.Clamd.Addr, cfg.Assets.MaxUploadBytes, cfg.Assets.UploadsPerDay)
	homeHandler := NewHomeHandler(db, notifier)

	skillHandler := NewContentHandler[database.Skill, *database.Skill, skillRequest]("skills", stores.Skills, notifier)
	projectHandler := NewContentHandler[database.Project, *database.Project, projectRequest]("projects", stores.Projects, notifier)
	experienceHandler := NewContentHandler[database.Experience, *database.Experience, experienceRequest]("experience", stores.Experience, notifier)
	blogHandler := NewContentHandler[database.BlogPost, *database.BlogPost, blogPostRequest]("blog", stores.Blog, notifier)
	contactHandler := NewContentHandler[database.Contact, *database.Contact, contactRequest]("contact", stores.Contact, notifier)

	authMiddleware := middleware.AuthMiddleware(authService)

	v1 := router.Group("/v1")
	{
		v1.GET("/portfolio", portfolioHandler.GetPortfolio)
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(
			authMiddleware,
			middleware.RequirePasswordChangeCompletedMiddleware(),
			middleware.RequireAdminMiddleware(),
		)
		{
			adminGroup.GET("/home", homeHandler.GetHome)
			adminGroup.PUT("/home", homeHandler.UpdateHome)

			registerContentRoutes(adminGroup, "/skills", skillHandler)
			registerContentRoutes(adminGroup, "/projects", projectHandler)
			registerContentRoutes(adminGroup, "/experience", experienceHandler)
			registerContentRoutes(adminGroup, "/blog", blogHandler)
			registerContentRoutes(adminGroup, "/contact", contactHandler)

			assetGroup := adminGroup.Group("/assets")
			{
				assetGroup.POST("/upload", assetHandler.UploadAsset)
				assetGroup.GET("", assetHandler.ListAssets)
				assetGroup.GET("/view", assetHandler.GetAssetURL)
				assetGroup.DELETE("", assetHandler.DeleteAsset)
			}
		}
	}
}

type contentRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerContentRoutes(group *gin.RouterGroup, path string, handler contentRoutes) {
	sub := group.Group(path)
	sub.GET("", handler.List)
	sub.POST("", handler.Create)
	sub.PUT("/:id", handler.Update)
	sub.DELETE("/:id", handler.Delete)
}
