package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/survival-explorer-go/internal/handler"
	"github.com/jengzang/survival-explorer-go/internal/middleware"
	"github.com/jengzang/survival-explorer-go/internal/observability"
	"github.com/jengzang/survival-explorer-go/internal/service"
)

// Deps carries everything the router wires into handlers
type Deps struct {
	JWTSecret   []byte
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Limiter     *middleware.RateLimiter
	Presence    *service.PresenceService
	Exploration *service.ExplorationService
	POIs        *service.POIService
	Territories *service.TerritoryService
}

// SetupRouter 设置路由
func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Survival Explorer API is running",
		})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	exploration := handler.NewExplorationHandler(deps.Exploration, deps.Presence)
	pois := handler.NewPOIHandler(deps.POIs)
	territories := handler.NewTerritoryHandler(deps.Territories)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.Auth(deps.JWTSecret))
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter))
	}
	{
		api.POST("/presence", exploration.ReportPresence)
		api.GET("/explore", exploration.Explore)

		poiGroup := api.Group("/pois")
		{
			poiGroup.GET("", pois.GetPOIs)
			poiGroup.GET("/:id", pois.GetPOIByID)
			poiGroup.POST("/:id/discover", pois.Discover)
			poiGroup.POST("/:id/loot", pois.Loot)
		}

		territoryGroup := api.Group("/territories")
		{
			territoryGroup.GET("", territories.GetTerritories)
			territoryGroup.POST("", territories.Claim)
			territoryGroup.POST("/nmea", territories.ClaimNMEA)
			territoryGroup.GET("/:id", territories.GetTerritory)
			territoryGroup.DELETE("/:id", territories.DeleteTerritory)
		}

		api.GET("/stats/territories", territories.GetStats)
	}

	return r
}
