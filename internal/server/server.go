// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bloghub/internal/auth"
	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/mailer"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/mq"
	"bloghub/internal/repository"
	"bloghub/internal/service"
	"bloghub/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	jwt            *auth.JWTManager
	media          *storage.Storage
	broker         *mq.MQ

	userRepo     repository.UserRepository
	tokenRepo    repository.TokenRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository

	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	categoryService *service.CategoryService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	broker, err := connectBroker(cfg)
	if err != nil {
		return nil, fmt.Errorf("message broker connection failed: %w", err)
	}

	var media *storage.Storage
	if cfg.MinioEndpoint != "" {
		minioClient, err := storage.NewMinioClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("object storage connection failed: %w", err)
		}
		media = storage.NewStorage(minioClient)
	}

	return NewServerWithDeps(cfg, db, redisClient, broker, media)
}

// connectBroker dials RabbitMQ when configured. Without a broker the API
// still runs but emails are only logged.
func connectBroker(cfg *config.Config) (*mq.MQ, error) {
	if cfg.RabbitURL == "" {
		return nil, nil
	}
	client, err := mq.NewRabbitMQClient(cfg.RabbitURL)
	if err != nil {
		return nil, err
	}
	return mq.New(client), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, broker *mq.MQ, media *storage.Storage) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	prom := middleware.InitMetrics("bloghub-api")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	resetGen := auth.NewResetTokenGenerator(cfg.JWTSecret)

	var emails mailer.Publisher
	if broker != nil {
		emails = mailer.NewQueuePublisher(broker, cfg.EmailQueue)
	} else {
		emails = mailer.NewLogPublisher()
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		jwt:            jwtManager,
		media:          media,
		broker:         broker,
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		categoryRepo:   categoryRepo,
	}
	server.userService = service.NewUserService(userRepo, tokenRepo, jwtManager, resetGen, emails, cfg.Domain)
	server.postService = service.NewPostService(postRepo, categoryRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo)
	server.categoryService = service.NewCategoryService(categoryRepo)

	return server, nil
}

// UserService exposes the user service to the CLI commands.
func (s *Server) UserService() *service.UserService {
	return s.userService
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Bloghub Metrics Dashboard",
	}))

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	accounts.Get("/activation/confirm/:token", s.ActivateAccount)
	accounts.Post("/activation/resend", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "resend_activation"), s.ResendActivation)
	accounts.Post("/token/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.TokenLogin)
	accounts.Post("/token/logout", s.AuthRequired(), s.TokenLogout)
	accounts.Post("/jwt/create", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "jwt_create"), s.CreateJWT)
	accounts.Post("/jwt/refresh", s.RefreshJWT)
	accounts.Post("/jwt/verify", s.VerifyJWT)
	accounts.Put("/change-password", s.AuthRequired(), s.ChangePassword)
	accounts.Post("/reset-password", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "reset_password"), s.RequestPasswordReset)
	accounts.Get("/reset-password/confirm/:uid/:token", s.ValidateResetToken)
	accounts.Put("/reset-password/confirm/:uid/:token", s.ConfirmPasswordReset)
	accounts.Get("/profile", s.AuthRequired(), s.GetProfile)
	accounts.Put("/profile", s.AuthRequired(), s.UpdateProfile)

	// Blog routes
	blog := v1.Group("/blog")
	posts := blog.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	// Specific /:slug/:resource routes BEFORE generic /:slug routes
	posts.Post("/:slug/like", s.AuthRequired(), s.LikePost)
	posts.Post("/:slug/favorite", s.AuthRequired(), s.FavoritePost)
	posts.Get("/:slug/comments", s.GetComments)
	posts.Post("/:slug/comments", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:slug/comments/:id", s.GetComment)
	posts.Put("/:slug/comments/:id", s.AuthRequired(), s.UpdateComment)
	posts.Delete("/:slug/comments/:id", s.AuthRequired(), s.DeleteComment)
	// Generic /:slug routes last
	posts.Get("/:slug", s.GetPost)
	posts.Patch("/:slug", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:slug", s.AuthRequired(), s.DeletePost)

	categories := blog.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.StaffRequired(), s.CreateCategory)
	categories.Put("/:id", s.AuthRequired(), s.StaffRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.AuthRequired(), s.StaffRequired(), s.DeleteCategory)

	// Media upload
	v1.Post("/media", s.AuthRequired(), middleware.RateLimit(
		s.redis, 20, time.Minute, "media_upload"), s.UploadMedia)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overallStatus,
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Both credential styles
// are accepted: "Token <key>" for opaque DB-backed tokens and
// "Bearer <jwt>" for access tokens.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided."))
		}

		scheme, credential, found := strings.Cut(authHeader, " ")
		if !found || credential == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header."))
		}

		var userID uint
		switch scheme {
		case "Token":
			user, err := s.userService.GetUserByToken(c.UserContext(), credential)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid token."))
			}
			userID = user.ID
		case "Bearer":
			claims, err := s.jwt.Parse(credential, auth.TypeAccess)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired token"))
			}
			// Check JTI for revocation
			if cache.JWTRevoked(c.Context(), s.redis, claims.JTI) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
			userID = claims.UserID
		default:
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header."))
		}

		c.Locals("userID", userID)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// StaffRequired returns middleware that rejects non-staff users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userService.GetUserByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !user.IsStaff {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You do not have permission to perform this action."))
		}

		return c.Next()
	}
}

// fiberErrorHandler turns errors that escape the handlers into JSON
// responses. Unmatched routes and wrong methods arrive as *fiber.Error
// and keep their status (404/405); anything else is an internal error.
func fiberErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{Error: fiberErr.Message})
	}
	log.Printf("Error: %v", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:      "Bloghub API",
		ErrorHandler: fiberErrorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.broker != nil {
		if err := s.broker.Close(); err != nil {
			log.Printf("error closing message broker: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	return nil
}
