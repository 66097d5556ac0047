// Package app wires repositories, the Google Analytics client and the
// services together for main() and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ga-reports/internal/api"
	"ga-reports/internal/config"
	"ga-reports/internal/db/repository"
	"ga-reports/internal/ga"
	"ga-reports/internal/service/fieldsync"
	"ga-reports/internal/service/report"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config and the root logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger

	// AlterHook optionally adjusts each imported field before persistence.
	AlterHook fieldsync.AlterHook
}

// Services groups the service pointers the API handler and scheduler need.
type Services struct {
	Sync    *fieldsync.Service
	Reports *report.Service
}

// App is the fully wired application.
type App struct {
	Services  Services
	Handler   *api.Handler
	Scheduler *fieldsync.Scheduler // nil unless SYNC_SCHEDULE is configured
}

// New wires all repositories and services from the provided deps.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Catalog replacement goes through the write pool; queries and the API
	// listing read through the read pool.
	fieldsWrite := repository.NewFieldRepo(deps.WriteDB)
	fieldsRead := repository.NewFieldRepo(deps.ReadDB)
	settings := repository.NewSettingsRepo(deps.WriteDB)

	gaClient, err := ga.NewClient(ctx, cfg.GA)
	if err != nil {
		return nil, fmt.Errorf("create analytics client: %w", err)
	}

	syncSvc := fieldsync.NewService(fieldsWrite, settings, gaClient, cfg.GA, deps.AlterHook, deps.Logger)
	reportSvc := report.NewService(fieldsRead, gaClient, cfg.GA, deps.Logger.With("component", "report"))

	app := &App{
		Services: Services{Sync: syncSvc, Reports: reportSvc},
		Handler:  api.NewHandler(fieldsRead, syncSvc, reportSvc, deps.Logger),
	}

	if cfg.SyncSchedule != "" {
		sched, err := fieldsync.NewScheduler(syncSvc, cfg.SyncSchedule, deps.Logger)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_SCHEDULE %q: %w", cfg.SyncSchedule, err)
		}
		app.Scheduler = sched
	}

	return app, nil
}
