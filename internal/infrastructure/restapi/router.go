package restapi

import (
	"network_manager/internal/infrastructure/configloader"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter configures and returns the Gin router for the admin API.
func SetupRouter(handler *NetworkHandler, cfg *configloader.Config) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(RateLimitMiddleware(cfg.API.RequestsPerSecond, cfg.API.Burst))

	v1 := router.Group("/api/v1")
	{
		network := v1.Group("/network")
		{
			network.GET("", handler.GetNetworkHandler)
			network.POST("/wellknown/:name", handler.SwitchWellKnownHandler)
			network.POST("/custom/:id", handler.SwitchCustomHandler)
			network.POST("/refresh", handler.RefreshHandler)
			network.POST("/rollback", handler.RollbackHandler)
			network.POST("/probe", handler.ProbeHandler)
			network.GET("/fee-capability", handler.FeeCapabilityHandler)
			network.GET("/custom", handler.ListCustomHandler)
			network.PUT("/custom", handler.UpsertCustomHandler)
			network.DELETE("/custom/:id", handler.RemoveCustomHandler)
		}
		v1.GET("/health/endpoints", handler.EndpointHealthHandler)
		v1.POST("/health/ping", handler.PingEndpointHandler)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
