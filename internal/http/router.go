package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/facefit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/facefit-backend/internal/http/middleware"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/services"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware
	Entitlements   services.EntitlementService

	HealthHandler    *httpH.HealthHandler
	ScanHandler      *httpH.ScanHandler
	GoalHandler      *httpH.GoalHandler
	WorkoutHandler   *httpH.WorkoutHandler
	DashboardHandler *httpH.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	protected := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	premium := protected.Group("")
	premium.Use(httpMW.RequireEntitlement(cfg.Entitlements))

	// Scans
	if cfg.ScanHandler != nil {
		protected.POST("/scans", cfg.ScanHandler.CreateScan)
		protected.GET("/scans", cfg.ScanHandler.ListScans)
		protected.GET("/scans/:id", cfg.ScanHandler.GetScan)
	}

	// Goals
	if cfg.GoalHandler != nil {
		protected.GET("/goals", cfg.GoalHandler.GetGoal)
		protected.POST("/goals", cfg.GoalHandler.SetPreferences)
		protected.POST("/goals/derive", cfg.GoalHandler.DeriveGoals)
	}

	// Workouts
	if cfg.WorkoutHandler != nil {
		protected.GET("/exercises", cfg.WorkoutHandler.ListExercises)
		premium.GET("/plan", cfg.WorkoutHandler.GetPlan)
		premium.POST("/sessions", cfg.WorkoutHandler.CompleteSession)
	}

	// Dashboard
	if cfg.DashboardHandler != nil {
		premium.GET("/dashboard", cfg.DashboardHandler.GetDashboard)
	}

	return r
}
