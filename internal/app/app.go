package app

import (
	"context"
	"fmt"
	"net"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/facefit-backend/internal/data/db"
	"github.com/yungbote/facefit-backend/internal/http"
	"github.com/yungbote/facefit-backend/internal/observability"
	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	closeDB      func() error
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)
	a.Metrics = observability.Init(cfg.MetricsEnabled)

	var store *db.PostgresService
	if cfg.DBDriver == "sqlite" {
		store, err = db.NewSQLiteService(log, cfg.SQLitePath)
	} else {
		store, err = db.NewPostgresService(log)
	}
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.DB = store.DB()
	a.closeDB = store.Close
	if err := db.AutoMigrateAll(a.DB); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Clients = clients
	a.Repos = wireRepos(a.DB, log)

	serviceset, err := wireServices(a.DB, log, cfg, a.Repos, clients)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	a.Services = serviceset

	inserted, err := serviceset.Catalog.Seed(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("seed exercise catalog: %w", err)
	}
	log.Info("Exercise catalog ready", "inserted", inserted)

	handlers := wireHandlers(log, cfg, serviceset, healthChecks(a))
	middleware := wireMiddleware(log, serviceset)
	a.Server = wireServer(log, cfg, a.Metrics, serviceset, handlers, middleware)
	return a, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.closeDB != nil {
		_ = a.closeDB()
		a.closeDB = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
