// Package server contains the HTTP handlers for the inkwell API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *middleware.TokenManager
	limiter        *middleware.RateLimiter
	userService    userService
	profileService profileService
	articleService articleService
	commentService commentService
	tagService     tagService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.Connect(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil or disabled cache serves every read from the store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, c *cache.Cache) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	store := repository.NewStore(db)
	tags := service.NewTagService(store, c)

	return &Server{
		config:         cfg,
		db:             db,
		cache:          c,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		tokens:         middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL()),
		limiter:        middleware.NewRateLimiter(c.Client(), cfg.Env),
		userService:    service.NewUserService(store),
		profileService: service.NewProfileService(store),
		articleService: service.NewArticleService(store, tags),
		commentService: service.NewCommentService(store),
		tagService:     tags,
	}, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "inkwell API",
		BodyLimit:    1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	maxRequests := s.config.RateLimitPerMinute
	if maxRequests <= 0 {
		maxRequests = 300
	}
	app.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	required := middleware.AuthRequired(s.tokens)
	optional := middleware.AuthOptional(s.tokens)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/", s.limiter.Limit("register", 5, 10*time.Minute, middleware.FailOpen), s.Register)
	users.Post("/login", s.limiter.Limit("login", 10, 5*time.Minute, middleware.FailClosed), s.Login)

	api.Get("/user", required, s.GetCurrentUser)
	api.Put("/user", required, s.UpdateCurrentUser)

	profiles := api.Group("/profiles")
	profiles.Get("/:username", optional, s.GetProfile)
	profiles.Post("/:username/follow", required, s.FollowUser)
	profiles.Delete("/:username/follow", required, s.UnfollowUser)

	articles := api.Group("/articles")
	articles.Get("/", optional, s.ListArticles)
	articles.Post("/", required, s.limiter.Limit("create_article", 10, time.Minute, middleware.FailOpen), s.CreateArticle)
	// Define /feed before the generic /:slug route
	articles.Get("/feed", required, s.FeedArticles)
	articles.Get("/:slug/comments", optional, s.ListComments)
	articles.Post("/:slug/comments", required, s.limiter.Limit("create_comment", 30, time.Minute, middleware.FailOpen), s.AddComment)
	articles.Delete("/:slug/comments/:id", required, s.DeleteComment)
	articles.Post("/:slug/favorite", required, s.FavoriteArticle)
	articles.Delete("/:slug/favorite", required, s.UnfavoriteArticle)
	articles.Get("/:slug", optional, s.GetArticle)
	articles.Put("/:slug", required, s.UpdateArticle)
	articles.Delete("/:slug", required, s.DeleteArticle)

	api.Get("/tags", s.ListTags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// disabled cache reports "disabled" without failing readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.cache.Enabled() {
		redisStatus = "healthy"
		if err := s.cache.Ping(ctx); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown stops the HTTP server and releases the store and cache.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				middleware.Logger.Error("error closing sql DB", "error", cerr)
			}
		}
	}

	if err := s.cache.Close(); err != nil {
		middleware.Logger.Error("error closing redis", "error", err)
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

// errorHandler renders errors returned by handlers and middleware.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return respondError(c, err)
}
