// Package server contains the HTTP handlers and routing for the blog.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultMaxUploadMB = 10

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	pageCache      *cache.PageCache
	now            func() time.Time
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	followRepo     repository.FollowRepository
	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
	followService  *service.FollowService
	groupService   *service.GroupService
	userService    *service.UserService
	imageService   *service.ImageService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient disables the page cache and token revocation.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		pageCache:      cache.NewPageCache(redisClient, cfg.PageCacheTTL()),
		now:            time.Now,
		userRepo:       repository.NewUserRepository(db),
		groupRepo:      repository.NewGroupRepository(db, cache.NewGroupCache(redisClient, cache.DefaultGroupTTL)),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}

	s.imageService = service.NewImageService(cfg)
	s.feedService = service.NewFeedService(s.postRepo, s.groupRepo, s.userRepo, s.followRepo, cfg.PostsPerPage)
	s.postService = service.NewPostService(s.postRepo, s.groupRepo, s.imageService, s.pageCache)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.groupService = service.NewGroupService(s.groupRepo, s.pageCache)
	s.userService = service.NewUserService(s.userRepo, s.pageCache)

	return s, nil
}

// NewApp builds a Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	maxUploadMB := s.config.ImageMaxUploadSizeMB
	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}

	app := fiber.New(fiber.Config{
		AppName:   "Inkwell",
		BodyLimit: maxUploadMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				if fe.Code == fiber.StatusNotFound {
					return models.RespondWithError(c, fe.Code, models.NewNotFoundError("Route", c.Path()))
				}
				return models.RespondWithError(c, fe.Code, models.NewValidationError(fe.Message))
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Resolve the viewer before the context middleware so the user ID reaches the logger.
	app.Use(middleware.Authenticate(s.config.JWTSecret, s.isTokenRevoked))
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000,http://127.0.0.1:8000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell Metrics Dashboard",
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Static("/media", s.imageService.MediaRoot())

	login := middleware.LoginRequired()

	// Feeds
	app.Get("/", middleware.CachePage(s.pageCache), s.Index)
	app.Get("/group/:slug", s.GroupPosts)
	app.Get("/follow", login, s.FollowIndex)
	app.Get("/profile/:username/follow", login, s.ProfileFollow)
	app.Get("/profile/:username/unfollow", login, s.ProfileUnfollow)
	app.Get("/profile/:username", s.Profile)

	// Posts
	app.Get("/create", login, s.CreatePostForm)
	app.Post("/create", login, s.CreatePost)
	app.Get("/posts/:id/edit", login, s.EditPostForm)
	app.Post("/posts/:id/edit", login, s.EditPost)
	app.Post("/posts/:id/comment", login, s.AddComment)
	app.Get("/posts/:id", s.PostDetail)

	// Auth
	auth := app.Group("/auth")
	auth.Get("/signup", s.SignupForm)
	auth.Post("/signup", s.Signup)
	auth.Get("/login", s.LoginForm)
	auth.Post("/login", s.Login)
	auth.Get("/logout", s.Logout)
	auth.Post("/logout", s.Logout)

	// Static pages
	about := app.Group("/about")
	about.Get("/author", s.AboutAuthor)
	about.Get("/tech", s.AboutTech)

	// Admin routes
	admin := app.Group("/admin", s.AdminRequired())
	admin.Post("/groups", s.CreateGroup)
	admin.Delete("/groups/:slug", s.DeleteGroup)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Delete("/users/:username", s.DeleteUser)
}

// LivenessCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,time=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   s.now(),
	})
}

// ReadinessCheck godoc
// @Summary Readiness probe
// @Description Pings the database and Redis. Redis is optional and never fails readiness.
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
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
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": s.now(),
	})
}

// AdminRequired rejects anonymous callers with 401 and non-admins with 403.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.CurrentUserID(c)
		if userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Authorization required"))
		}

		admin, err := s.userService.IsAdmin(c.UserContext(), userID)
		if err != nil && !models.HasCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

func (s *Server) isTokenRevoked(ctx context.Context, jti string) bool {
	if s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, revokedTokenKey(jti)).Result()
	return err == nil && n > 0
}

func (s *Server) Start() error {
	s.app = s.NewApp()

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
