// internal/server/router.go
package server

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/database"
	"game-catalog-backend/internal/handlers"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/store"
)

type Deps struct {
	DB           *database.DB
	Tokens       *auth.TokenManager
	Logger       *slog.Logger
	CORSOrigin   string
	LoginLimiter *middleware.IPRateLimiter
	Metrics      *middleware.Metrics

	// Адреса и подсети прокси, чьим X-Forwarded-For верим. nil - никому.
	TrustedProxies []string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	if d.LoginLimiter == nil {
		d.LoginLimiter = middleware.NewIPRateLimiter(1, 5)
	}

	r := gin.New()
	// ClientIP читает X-Forwarded-For только от доверенных прокси
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.Logger(d.Logger),
		d.Metrics.Middleware(),
		middleware.CORS(d.CORSOrigin),
		// картинки уже сжаты
		gzip.Gzip(gzip.DefaultCompression,
			gzip.WithExcludedPaths([]string{"/metrics"}),
			gzip.WithExcludedPathsRegexs([]string{`^/api/games/\d+/image$`}),
		),
	)

	users := store.NewUserStore(d.DB)
	authHandler := handlers.NewAuthHandler(users, d.Tokens)
	userHandler := handlers.NewUserHandler(users)
	gameHandler := handlers.NewGameHandler(store.NewGameStore(d.DB))
	pageHandler := handlers.NewPageContentHandler(store.NewPageContentStore(d.DB))
	healthHandler := handlers.NewHealthHandler(d.DB)

	requireAuth := middleware.AuthMiddleware(d.Tokens)
	requireAdmin := middleware.RequireAdmin()
	limitLogin := d.LoginLimiter.Middleware()

	api := r.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		user := api.Group("/user")
		{
			user.POST("/", authHandler.Register)
			user.POST("/login", limitLogin, authHandler.Login)
			user.POST("/check", authHandler.Check)

			protected := user.Group("", requireAuth)
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
			protected.GET("/", userHandler.List)
			protected.GET("/:id", userHandler.Get)
			protected.PUT("/:id", userHandler.Update)
			protected.DELETE("/:id", requireAdmin, userHandler.Delete)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", limitLogin, authHandler.LoginByUsername)
			authGroup.POST("/register", requireAuth, requireAdmin, authHandler.CreateUser)
		}

		games := api.Group("/games")
		{
			games.GET("", gameHandler.List)
			games.GET("/:id", gameHandler.Get)
			games.GET("/:id/image", gameHandler.Image)

			admin := games.Group("", requireAuth, requireAdmin)
			admin.POST("", gameHandler.Create)
			admin.PUT("/:id", gameHandler.Update)
			admin.DELETE("/:id", gameHandler.Delete)
		}

		pages := api.Group("/page-content")
		{
			pages.GET("/:section", pageHandler.Get)
			pages.PUT("/:section", requireAuth, requireAdmin, pageHandler.Update)
		}
	}

	r.GET("/metrics", d.Metrics.Handler())

	return r, nil
}
