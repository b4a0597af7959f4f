package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/batch"
	"salary-backend/internal/market"
	"salary-backend/internal/model"
	"salary-backend/internal/predictions"
	"salary-backend/internal/services/health"
	"salary-backend/internal/shared/config"
	"salary-backend/internal/shared/metrics"
	"salary-backend/internal/shared/server/middleware"
	"salary-backend/internal/shared/server/respond"
)

const (
	batchRateGroup     = "BATCH"
	marketQueryTimeout = 15 * time.Second
)

// RouterDeps carries the handlers and services the router mounts.
type RouterDeps struct {
	Config            config.Config
	BatchHandler      *batch.Handler
	PredictionHandler *predictions.Handler
	Health            *health.Service
	Model             *model.Holder
	Market            market.Source
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		st := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, st)
	})
	api.GET("/model", func(c *gin.Context) {
		if deps.Model == nil {
			respond.OK(c, model.Info{Error: model.ErrModelUnavailable.Error()})
			return
		}
		respond.OK(c, deps.Model.Info(c.Request.Context()))
	})
	api.GET("/market", func(c *gin.Context) {
		value, live := market.Fallback, false
		if deps.Market != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), marketQueryTimeout)
			defer cancel()
			if v, ok := deps.Market.Lookup(ctx); ok {
				value, live = v, true
			}
		}
		respond.OK(c, gin.H{"value": value, "live": live, "fallback": market.Fallback})
	})

	if deps.PredictionHandler != nil {
		deps.PredictionHandler.RegisterRoutes(api)
	}
	if deps.BatchHandler != nil {
		deps.BatchHandler.RegisterRoutes(api)

		uploads := api.Group("")
		uploads.Use(middleware.RateLimit(batchRateLimit(deps)))
		deps.BatchHandler.RegisterUploadRoutes(uploads)
	}

	return r
}

func batchRateLimit(deps RouterDeps) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if perMinute := deps.Config.BatchRatePerMinute; perMinute > 0 {
		rules[batchRateGroup] = middleware.RateLimitRule{
			Rate:  float64(perMinute) / 60,
			Burst: perMinute,
		}
	}
	return middleware.RateLimitConfig{
		Rules:        rules,
		DefaultGroup: batchRateGroup,
		Limiter:      deps.RateLimiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
