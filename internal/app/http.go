package app

import (
	"context"

	"github.com/yungbote/facefit-backend/internal/http"
	httpH "github.com/yungbote/facefit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/facefit-backend/internal/http/middleware"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Scan      *httpH.ScanHandler
	Goal      *httpH.GoalHandler
	Workout   *httpH.WorkoutHandler
	Dashboard *httpH.DashboardHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, checks map[string]httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(checks),
		Scan:      httpH.NewScanHandler(log, services.Scans, cfg.MaxUploadBytes),
		Goal:      httpH.NewGoalHandler(services.Goals, services.Plans, services.Entitlements),
		Workout:   httpH.NewWorkoutHandler(services.Plans, services.Progression, services.Catalog),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, services Services, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		Metrics:          metrics,
		AuthMiddleware:   middleware.Auth,
		Entitlements:     services.Entitlements,
		HealthHandler:    handlers.Health,
		ScanHandler:      handlers.Scan,
		GoalHandler:      handlers.Goal,
		WorkoutHandler:   handlers.Workout,
		DashboardHandler: handlers.Dashboard,
	})
}

func healthChecks(a *App) map[string]httpH.Pinger {
	checks := map[string]httpH.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Clients.Redis != nil {
		rdb := a.Clients.Redis
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
