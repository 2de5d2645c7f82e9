package server

import (
	"net/http"
	"time"

	"socialposts/internal/config"
	"socialposts/internal/handler"
	"socialposts/internal/middleware"
	"socialposts/internal/repository"
	"socialposts/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

// setupRoutes wires repositories, services, and handlers explicitly and lays
// out the route table. The public routes below are the whole allow-list:
// registration, login, token refresh, and user lookups. Everything else sits
// behind RequireUser.
func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	postRepo := repository.NewPostRepository(s.db, s.logger)
	commentRepo := repository.NewCommentRepository(s.db, s.logger)

	tokens := service.NewTokenService(s.cfg.JWT.Secret, s.cfg.AccessTTL(), s.cfg.RefreshTTL())
	users := service.NewUserService(userRepo, s.logger)
	posts := service.NewPostService(postRepo, userRepo, s.logger)
	comments := service.NewCommentService(commentRepo, postRepo, userRepo, s.logger)

	authHandler := handler.NewAuthHandler(users, tokens, s.logger)
	userHandler := handler.NewUserHandler(users, s.logger)
	postHandler := handler.NewPostHandler(posts, comments, users, s.logger)
	commentHandler := handler.NewCommentHandler(comments, s.logger)

	// CORS runs before the identity gate so preflights never touch auth.
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))
	s.router.Use(middleware.Identity(tokens, s.logger))

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Public routes
	s.router.POST("/users", userHandler.Register)
	s.router.POST("/users/login", authHandler.Login)
	s.router.POST("/users/refresh-token", authHandler.Refresh)
	s.router.GET("/users", userHandler.List)
	s.router.GET("/users/:id", userHandler.Get)

	// Authenticated routes
	authRequired := s.router.Group("", middleware.RequireUser())
	{
		authRequired.PUT("/users/:id", userHandler.Update)
		authRequired.DELETE("/users/:id", userHandler.Delete)
		authRequired.DELETE("/users/:id/with-posts", userHandler.DeleteWithPosts)

		authRequired.GET("/posts", postHandler.List)
		authRequired.GET("/posts/:id", postHandler.Get)
		authRequired.POST("/posts", postHandler.Create)
		authRequired.PUT("/posts/:id", postHandler.Update)
		authRequired.DELETE("/posts/:id", postHandler.Delete)
		authRequired.GET("/posts/:id/comments", postHandler.ListComments)
		authRequired.POST("/posts/:id/comments", postHandler.CreateComment)

		authRequired.GET("/comments/:id", commentHandler.Get)
		authRequired.PUT("/comments/:id", commentHandler.Update)
		authRequired.DELETE("/comments/:id", commentHandler.Delete)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
