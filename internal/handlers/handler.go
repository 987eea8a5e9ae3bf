package handlers

import (
	"net/http"
	"time"

	"expenso/internal/logger"
	"expenso/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options tune the HTTP layer. Zero values fall back to defaults.
type Options struct {
	AllowedOrigins []string
	WSInterval     time.Duration
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Options) *Handler {
	h := &Handler{services: services, log: log}
	if len(opts) > 0 {
		h.opts = opts[0]
	}
	if h.opts.WSInterval <= 0 || h.opts.WSInterval > maxInterval {
		h.opts.WSInterval = defaultInterval
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(requestIDMiddleware, h.accessLogMiddleware, h.recoveryMiddleware())
	if len(h.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(h.corsConfig()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Dashboard stream; token may come from the query string
	router.GET("/ws", h.wsAuthMiddleware, h.wsConnect)

	api := router.Group("/api")
	h.registerAuthRoutes(api)

	protected := api.Group("", h.userIdMiddleware)
	{
		protected.GET("/me", h.me)
		h.registerCategoryRoutes(protected)
		h.registerExpenseRoutes(protected)
		h.registerStatsRoutes(protected)
	}

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerCategoryRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
		categories.GET("/:id", h.getCategory)
		categories.PUT("/:id", h.updateCategory)
		categories.DELETE("/:id", h.deleteCategory)
	}
}

func (h *Handler) registerExpenseRoutes(api *gin.RouterGroup) {
	expenses := api.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.GET("/export", h.exportExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)
	}
}

func (h *Handler) registerStatsRoutes(api *gin.RouterGroup) {
	api.GET("/dashboard/stats", h.dashboardStats)

	stats := api.Group("/stats")
	{
		stats.GET("/categories", h.categoryStats)
		stats.GET("/monthly", h.monthlyStats)
	}
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = h.opts.AllowedOrigins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", headerRequestID)
	cfg.ExposeHeaders = []string{headerRequestID, "Content-Disposition"}
	return cfg
}

// originAllowed is the WebSocket counterpart of the CORS check.
func (h *Handler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range h.opts.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string  "status"
// @Failure      503  {object}  map[string]string  "status"
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	if err := h.services.Health.Check(c.Request.Context()); err != nil {
		if h.log != nil {
			h.log.Errorw("health_check_failed", "err", err)
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
