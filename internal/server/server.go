package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emilythestrangee/blog-api/backend/internal/auth"
	"github.com/emilythestrangee/blog-api/backend/internal/blog"
	"github.com/emilythestrangee/blog-api/backend/internal/config"
	"github.com/emilythestrangee/blog-api/backend/internal/handlers"
	"github.com/emilythestrangee/blog-api/backend/internal/metrics"
	"github.com/emilythestrangee/blog-api/backend/internal/middleware"
	"github.com/emilythestrangee/blog-api/backend/internal/store"
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	handler  *handlers.Handler
	auth     *auth.Service
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
}

// New wires the services on top of st. A nil clock means wall time.
func New(cfg *config.Config, st store.Store, clock clockwork.Clock) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	blogs := blog.NewService(st, st, blog.Config{
		Clock:         clock,
		Metrics:       m,
		RetryAttempts: cfg.VoteRetryAttempts,
	})
	users := auth.NewService(st, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clock))

	return &Server{
		cfg:      cfg,
		store:    st,
		handler:  handlers.NewHandler(blogs, users),
		auth:     users,
		registry: registry,
		metrics:  m,
		limiter:  middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

// HTTPServer wraps the router in an http.Server listening on cfg.Port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", s.cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Correlation())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Errors(s.metrics))

	origins := s.cfg.AllowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAll(origins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.Use(s.limiter.Middleware())
	{
		// Auth routes (public)
		user := api.Group("/user")
		user.POST("/signup", s.handler.User.Signup)
		user.POST("/login", s.handler.User.Login)
		user.GET("/blogs", middleware.AuthMiddleware(s.auth), s.handler.User.GetUserBlogs)

		// Blog routes (authentication required)
		blogs := api.Group("/blogs")
		blogs.Use(middleware.AuthMiddleware(s.auth))
		{
			blogs.GET("", s.handler.Blog.GetBlogs)
			blogs.GET("/", s.handler.Blog.GetBlogs)
			blogs.GET("/:id", s.handler.Blog.GetBlog)
			blogs.POST("", s.handler.Blog.CreateBlog)
			blogs.POST("/", s.handler.Blog.CreateBlog)
			blogs.DELETE("/:id", s.handler.Blog.DeleteBlog)
			blogs.PATCH("/:id", s.handler.Blog.UpdateBlog)

			blogs.POST("/:id/upvote", s.handler.Blog.UpvoteBlog)
			blogs.POST("/:id/downvote", s.handler.Blog.DownvoteBlog)
			blogs.POST("/:id/remove-vote", s.handler.Blog.RemoveVote)

			blogs.GET("/:id/comments", s.handler.Blog.GetComments)
			blogs.POST("/:id/comments", s.handler.Blog.AddComment)
			blogs.DELETE("/:id/comments/:commentId", s.handler.Blog.DeleteComment)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	stats := s.store.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}

func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
