// Package appointments wires the dual-track appointment flows.
package appointments

import (
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/handler"
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/service"
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the appointments bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the appointments module.
func NewModule(
	pool *pgxpool.Pool,
	candidates *candrepo.Repository,
	guard *gateway.Gateway,
	notifier service.Notifier,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(repository.New(pool), candidates, guard, notifier, bus, log)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "appointments"
}

// RegisterRoutes mounts the appointment routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterCandidateRoutes(ctx.Candidate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
