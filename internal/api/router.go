package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/recurly/checkout-pricing/internal/api/v1"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Estimate *v1.EstimateHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	estimates := router.Group("/estimates")
	{
		estimates.POST("", handlers.Estimate.CreateEstimate)
	}
}
