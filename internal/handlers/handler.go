package handlers

import (
	"fleet_console/internal/logger"
	"fleet_console/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to the console core and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs the HTTP handler with its dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// WebSocket view stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/twins", h.getTwins)

		h.registerRunRoutes(api)
		h.registerActionRoutes(api)
		h.registerViewRoutes(api)
	}
}

func (h *Handler) registerRunRoutes(api *gin.RouterGroup) {
	runs := api.Group("/runs")
	{
		runs.GET("", h.listRuns)
		runs.DELETE("/:id", h.removeRun)
		runs.DELETE("", h.clearRuns)
	}
}

func (h *Handler) registerActionRoutes(api *gin.RouterGroup) {
	api.POST("/autopilot", h.runAutopilot)
	api.POST("/autopilot/explain", h.explainAutopilot)
	api.POST("/procurement/recommend", h.recommendProvider)
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	view := api.Group("/view")
	{
		// Body example: {"mode":"filtered","activeRunId":"<run uuid>"}
		view.POST("", h.setView)
		view.DELETE("", h.resetView)
	}
}
