package server

import (
	"confirm-core/internal/handler"
	"confirm-core/internal/handler/response"

	"confirm-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPRouter initializes and returns a gin Engine
func NewHTTPRouter(confirmHandler *handler.ConfirmHandler) *gin.Engine {
	// 0. Register metrics
	monitor.Init()

	// 1. Engine with default middleware (Logger, Recovery)
	r := gin.Default()

	// 2. Shared middleware
	r.Use(monitor.PrometheusMiddleware())

	// 3. Base routes
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. API routes
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		confirmGroup := api.Group("/confirm")
		{
			confirmGroup.POST("/accept", confirmHandler.Accept)
			confirmGroup.POST("/deny", confirmHandler.Deny)
			confirmGroup.GET("/queue", confirmHandler.Queue)
		}
	}

	return r
}
