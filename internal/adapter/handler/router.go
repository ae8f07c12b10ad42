package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-insight/internal/usecase/review"
	"github.com/johnquangdev/call-insight/pkg/config"
	"github.com/johnquangdev/call-insight/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	sessionHandler    *Session
	reviewHandler     *Review
	evaluationHandler *Evaluation
	metricsHandler    *Metrics
	sessions          *review.Registry
	authMiddleware    echo.MiddlewareFunc
	logger            *zap.Logger
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, sessionHandler *Session, reviewHandler *Review, evaluationHandler *Evaluation, metricsHandler *Metrics, sessions *review.Registry, authMiddleware echo.MiddlewareFunc, logger *zap.Logger) *Router {
	return &Router{
		cfg:               cfg,
		sessionHandler:    sessionHandler,
		reviewHandler:     reviewHandler,
		evaluationHandler: evaluationHandler,
		metricsHandler:    metricsHandler,
		sessions:          sessions,
		authMiddleware:    authMiddleware,
		logger:            logger,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// middleware rejections share the handler envelope
	e.HTTPErrorHandler = HTTPErrorHandler(rt.logger)

	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	v1.POST("/sessions", rt.sessionHandler.Create)

	rt.setupReviewRoutes(v1)
	rt.setupEvaluationRoutes(v1)
	rt.setupMetricsRoutes(v1)
}

// setupReviewRoutes configures the review session routes
func (rt *Router) setupReviewRoutes(g *echo.Group) {
	reviewGroup := g.Group("/review", rt.authMiddleware, middleware.RequireSession(rt.sessions))

	reviewGroup.GET("/records", rt.reviewHandler.ListRecords)
	reviewGroup.GET("/page", rt.reviewHandler.CurrentPage)
	reviewGroup.PUT("/page", rt.reviewHandler.SetPage)
	reviewGroup.PUT("/filter", rt.reviewHandler.SetFilter)
	reviewGroup.GET("/selection", rt.reviewHandler.GetSelection)
	reviewGroup.DELETE("/selection", rt.reviewHandler.ClearSelection)
	reviewGroup.POST("/selection/toggle", rt.reviewHandler.ToggleSelection)
	reviewGroup.POST("/selection/page", rt.reviewHandler.SelectPage)
	reviewGroup.POST("/expand/:id", rt.reviewHandler.ToggleExpanded)
	reviewGroup.POST("/batch", rt.reviewHandler.StartBatch)
	reviewGroup.GET("/batch", rt.reviewHandler.BatchStatus)
}

// setupEvaluationRoutes configures ad-hoc evaluation routes
func (rt *Router) setupEvaluationRoutes(g *echo.Group) {
	evaluationGroup := g.Group("/evaluations", rt.authMiddleware)
	evaluationGroup.POST("/preview", rt.evaluationHandler.Preview)
}

// setupMetricsRoutes configures dashboard metric routes
func (rt *Router) setupMetricsRoutes(g *echo.Group) {
	metricsGroup := g.Group("/metrics", rt.authMiddleware)
	metricsGroup.GET("/evaluated", rt.metricsHandler.CountEvaluated)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := "production"
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
		"sessions":    rt.sessions.Len(),
	})
}
