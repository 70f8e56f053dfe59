// Package router assembles the gin engine serving the HTTP API.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"commentshub/internal/config"
	"commentshub/internal/microservices/http-api/cache"
	"commentshub/internal/microservices/http-api/handler"
	"commentshub/internal/microservices/http-api/middleware"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services are the collaborators the routes dispatch to.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Comments      service.CommentService
	Notifications service.NotificationService
}

// New builds the engine. A nil store disables response caching.
func New(cfg *config.Config, svc Services, store cache.Store, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	opts := handler.RouteOptions{
		Throttle: middleware.NewThrottler(cfg.RateLimitRPS, cfg.RateLimitBurst, 0).Middleware(),
	}
	if store != nil && cfg.CacheEnabled {
		opts.Cache = middleware.ResponseCache(store, cfg.CacheTTL, cfg.CachePrefix, logger)
	}

	// token endpoints ignore any Authorization header
	handler.NewAuthHandler(svc.Auth).RegisterRoutes(&r.RouterGroup, opts)

	api := r.Group("/", middleware.Authenticate(svc.Auth))
	handler.NewUserHandler(svc.Users, cfg.PageSize).RegisterRoutes(api, opts)
	handler.NewCommentHandler(svc.Comments, cfg.PageSize).RegisterRoutes(api, opts)
	handler.NewNotificationHandler(svc.Notifications).RegisterRoutes(api)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"X-Cache", "Retry-After"},
		MaxAge:        5 * time.Minute,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
