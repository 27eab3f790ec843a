package app

import (
	"context"
	"fmt"

	"publish/internal/config"
	"publish/internal/db"
	"publish/internal/handlers"
	"publish/internal/logger"
	"publish/internal/repository"
	"publish/internal/routes"
	"publish/internal/services"
	"publish/internal/web"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// InitApp wires storage, services and handlers. The returned func closes the
// database.
func InitApp(ctx context.Context, cfg *config.Config) (*mux.Router, func(), error) {
	repo, closeDB, err := NewPageRepo(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	tmpl, err := web.Templates()
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("parse templates: %w", err)
	}

	// Services
	pageSvc := services.NewPageService(repo)

	// Handlers
	pageH := handlers.NewPageHandler(pageSvc)
	siteH := handlers.NewSiteHandler(pageSvc, tmpl, web.Static())
	adminH := handlers.NewAdminHandler(pageSvc)
	logsH := handlers.NewAdminLogsHandler(cfg.LogDir)

	router := mux.NewRouter()
	routes.InitRoutes(router, pageH, siteH, adminH, logsH, cfg.JWTSecret)

	return router, closeDB, nil
}

// NewPageRepo opens the database selected by DB_DRIVER.
func NewPageRepo(cfg *config.Config) (repository.PageRepo, func(), error) {
	logger.Log.Info("connecting to database", zap.String("dsn", cfg.GetDSNSafe()))

	switch cfg.DbDriver {
	case config.DriverPostgres:
		pool, err := db.NewPostgresConnection(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return repository.NewPostgresPageRepo(pool), pool.Close, nil
	case config.DriverSQLite:
		conn, err := db.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		return repository.NewSQLitePageRepo(conn), func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DbDriver)
	}
}
