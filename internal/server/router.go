package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"usercache-be/internal/controllers"
	"usercache-be/internal/metrics"
	"usercache-be/internal/middleware"
)

// Dependencies are the collaborators the router needs
type Dependencies struct {
	UserController *controllers.UserController
	RateLimiter    *middleware.RateLimiter
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// NewRouter builds the gin engine serving the user routes
func NewRouter(deps Dependencies) *gin.Engine {
	controllers.UseJSONFieldNames()

	router := gin.New()
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))

	// Health check endpoint (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	users := router.Group("/users")
	if deps.RateLimiter != nil {
		users.Use(deps.RateLimiter.LimitMiddleware())
	}
	{
		users.GET("/:id", deps.UserController.GetUser)
		users.POST("", deps.UserController.CreateUser)
	}

	return router
}
