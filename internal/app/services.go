package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/facefit-backend/internal/data/aggregates"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
	"github.com/yungbote/facefit-backend/internal/services"
)

type Services struct {
	Tx           aggregates.TxRunner
	Auth         services.AuthService
	Catalog      services.CatalogService
	Plans        services.PlanService
	Goals        services.GoalService
	Scans        services.ScanService
	Progression  services.ProgressionService
	Dashboard    services.DashboardService
	Entitlements services.EntitlementService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	if cfg.JWTSecretKey == "" {
		return Services{}, fmt.Errorf("missing JWT_SECRET_KEY")
	}

	var catalogSource []byte
	if cfg.CatalogFile != "" {
		b, err := os.ReadFile(cfg.CatalogFile)
		if err != nil {
			return Services{}, fmt.Errorf("read catalog file: %w", err)
		}
		catalogSource = b
	}

	tx := aggregates.NewGormTxRunner(db, clients.Locks, log)
	plans := services.NewPlanService(log, tx, repos.WorkoutPlan, repos.Goal, repos.Exercise, services.PlanOptions{
		Total:    cfg.PlanTotal,
		Finisher: cfg.FinisherName,
	})

	return Services{
		Tx:      tx,
		Auth:    services.NewAuthService(log, cfg.JWTSecretKey),
		Catalog: services.NewCatalogService(log, tx, repos.Exercise, catalogSource, cfg.Rules, cfg.FinisherName),
		Plans:   plans,
		Goals:   services.NewGoalService(log, tx, repos.Scan, repos.Goal),
		Scans: services.NewScanService(services.ScanServiceDeps{
			Log:          log,
			Tx:           tx,
			Scans:        repos.Scan,
			Goals:        repos.Goal,
			Detector:     clients.FaceDetector,
			Images:       clients.ScanImages,
			Plans:        plans,
			Thresholds:   cfg.Quality,
			MaxImageSide: cfg.MaxImageSide,
		}),
		Progression:  services.NewProgressionService(log, tx, repos.WorkoutPlan, repos.PlanExercise, repos.WorkoutSession, repos.Exercise, cfg.Rules),
		Dashboard:    services.NewDashboardService(log, repos.Scan, repos.Goal, repos.WorkoutSession),
		Entitlements: services.NewEntitlementService(log, repos.Subscription, clients.Billing, clients.EntitlementCache),
	}, nil
}
