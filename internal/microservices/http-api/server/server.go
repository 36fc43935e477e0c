package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	db         *gorm.DB
	logger     *slog.Logger
}

// NewServer wires repositories, services and handlers into a gin engine.
// rdb may be nil, which disables the confirmation code cooldown.
func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer mail.Mailer, logger *slog.Logger) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	codes, err := service.NewCodeGenerator(cfg.JWTSecret, cfg.ConfirmationCodeTTL)
	if err != nil {
		return nil, fmt.Errorf("confirmation codes: %w", err)
	}
	throttle := service.NewCodeThrottle(rdb, cfg.ConfirmationCodeCooldown)

	authService := service.NewAuthService(userRepo, codes, throttle, mailer, cfg)
	userService := service.NewUserService(userRepo, cfg.PageSize)
	categoryService := service.NewCategoryService(categoryRepo, cfg.PageSize)
	genreService := service.NewGenreService(genreRepo, cfg.PageSize)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, cfg.PageSize)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, cfg.PageSize)
	commentService := service.NewCommentService(commentRepo, reviewRepo, titleRepo, cfg.PageSize)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	setupCORS(router, cfg.CORSOrigins)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	if cfg.RateLimitRPS > 0 {
		router.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	s := &Server{
		engine: router,
		db:     db,
		logger: logger,
	}
	router.GET("/check-conn", s.checkConn)

	api := router.Group("/api/v1")
	api.Use(middleware.Authenticate(authService, userService))

	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api)
	handler.NewGenreHandler(genreService).RegisterRoutes(api)
	handler.NewTitleHandler(titleService).RegisterRoutes(api)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api)
	handler.NewCommentHandler(commentService).RegisterRoutes(api)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// checkConn reports whether the API can reach its database.
// GET /check-conn
func (s *Server) checkConn(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, s.db); err != nil {
		s.logger.Warn("database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		return
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
