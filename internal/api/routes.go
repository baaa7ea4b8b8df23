package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck 返回 nil 表示依赖正常
type HealthCheck func(ctx context.Context) error

// RegisterRoutes 注册全部业务路由；registry 为 nil 时不暴露 /metrics
func RegisterRoutes(r *gin.Engine, market *MarketHandler, sync *SyncHandler, registry *prometheus.Registry, health HealthCheck) {
	r.GET("/health", healthHandler(health))
	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/:sport/pre-match/market/list", market.PreMatchMarketList)
		apiGroup.GET("/:sport/pre-match/market/odds", market.PreMatchOdds)
		apiGroup.GET("/:sport/live-match/market/list", market.LiveMarketList)
		apiGroup.GET("/combined/football-ice-hockey/odds", market.CombinedOdds)
	}

	if sync != nil {
		r.POST("/sync/pre-match/odds", sync.SyncPreMatchOddsHandler)
	}
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
