package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/goldrate/api/handler"
	"github.com/use-agent/goldrate/api/middleware"
	"github.com/use-agent/goldrate/cache"
	"github.com/use-agent/goldrate/config"
	"github.com/use-agent/goldrate/runner"
)

// Deps are the operations the router exposes.
type Deps struct {
	Gate     *runner.Gate
	Cache    *cache.Cache
	CacheKey string
}

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, deps Deps, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(deps.Gate, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/quote", handler.Quote(deps.Gate.Quote, deps.Cache, deps.CacheKey))
	protected.POST("/run", handler.Run(deps.Gate))

	return r
}
