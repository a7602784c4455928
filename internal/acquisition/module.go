// Package acquisition provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all setup and route
// registration for the engine.
package acquisition

import (
	"akquise_backend/internal/acquisition/handler"
	"akquise_backend/internal/acquisition/ports"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/service"
	"akquise_backend/internal/events"
	apphttp "akquise_backend/internal/http"
	"akquise_backend/platform/config"
	"akquise_backend/platform/logger"
	"akquise_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the acquisition bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule wires the acquisition engine. converter and reminders are
// optional collaborators; pass nil to disable the respective side effect.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg config.ImportConfig, log *logger.Logger, converter ports.ConversionService, reminders ports.ReminderScheduler) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log, bus, converter, reminders, cfg.GetImportBatchSize())
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "acquisition"
}

// Service returns the engine service for non-HTTP callers (import CLI).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the lead store for external readers.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts the engine routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
	m.handler.RegisterAuxRoutes(ctx.V1)
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
