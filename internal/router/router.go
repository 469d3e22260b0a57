package router

import (
	"time"

	"github.com/Baaaki/content-square/internal/authz"
	"github.com/Baaaki/content-square/internal/handler"
	"github.com/Baaaki/content-square/internal/middleware"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/internal/service"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	DB     *gorm.DB
	Redis  *redis.Client // optional, rate limiting falls back to in-process buckets
	Tokens *security.TokenService

	Logger        *zap.Logger
	RequestLogger *zap.Logger

	IsProduction          bool
	CORSAllowedOrigins    []string
	RateLimit             middleware.RateLimiterConfig
	RequestTimeout        time.Duration
	MaxBodyBytes          int64
	MaxConcurrentRequests int64
}

// New wires repositories, services and handlers into a gin engine
func New(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reqLog := opts.RequestLogger
	if reqLog == nil {
		reqLog = zap.NewNop()
	}

	repos := repository.New(opts.DB)
	gate := authz.Default()

	authService := service.NewAuthService(repos, opts.Tokens)
	userService := service.NewUserService(repos)
	postService := service.NewPostService(repos, gate)
	tagService := service.NewTagService(repos)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	tagHandler := handler.NewTagHandler(tagService)
	healthHandler := handler.NewHealthHandler(opts.DB)

	metrics := middleware.NewMetrics()
	limiter := middleware.NewRateLimiter(opts.Redis, opts.RateLimit)

	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(log, true))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestTimer(reqLog))
	r.Use(metrics.Middleware())
	r.Use(corsMiddleware(opts.CORSAllowedOrigins))
	r.Use(middleware.SecurityHeadersMiddleware(opts.IsProduction))

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/")
	api.Use(limiter.Middleware())
	api.Use(middleware.ConcurrencyLimit(opts.MaxConcurrentRequests))
	api.Use(middleware.MaxBodyBytes(opts.MaxBodyBytes))
	api.Use(middleware.Timeout(opts.RequestTimeout))

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Protected routes (require bearer token)
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))

	users := protected.Group("/users")
	{
		users.POST("/create", userHandler.Create)
		users.GET("/all", userHandler.List)
		users.POST("/get", userHandler.Get)
		users.POST("/update", userHandler.Update)
		users.POST("/delete", userHandler.Delete)
	}

	posts := protected.Group("/posts")
	{
		posts.POST("/create", postHandler.Create)
		posts.GET("/all", postHandler.List)
		posts.POST("/get", postHandler.Get)
		posts.POST("/update", postHandler.Update)
		posts.POST("/delete", postHandler.Delete)
	}

	tags := protected.Group("/tags")
	{
		tags.POST("/create", tagHandler.Create)
		tags.GET("/all", tagHandler.List)
		tags.POST("/get", tagHandler.Get)
		tags.POST("/update", tagHandler.Update)
		tags.POST("/delete", tagHandler.Delete)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", handler.RefreshHeader, middleware.KeyRequestID)
	cfg.ExposeHeaders = []string{middleware.KeyRequestID}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
