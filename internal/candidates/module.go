// Package candidates wires the candidate lifecycle flows.
package candidates

import (
	authrepo "github.com/jj8127/Appointment-Process-sub000/internal/auth/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/handler"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/service"
	docrepo "github.com/jj8127/Appointment-Process-sub000/internal/documents/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/devicetoken"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the candidates bounded context.
type Module struct {
	handler    *handler.Handler
	repository *repository.Repository
}

// NewModule wires the candidates module.
func NewModule(
	pool *pgxpool.Pool,
	guard *gateway.Gateway,
	notifier service.Notifier,
	store service.ObjectRemover,
	bucket string,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(
		repo,
		docrepo.New(pool),
		inapp.NewRepository(pool),
		devicetoken.New(pool),
		guard,
		notifier,
		store,
		authrepo.New(pool),
		bucket,
		bus,
		log,
	)
	return &Module{
		handler:    handler.New(svc, val),
		repository: repo,
	}
}

// Repository exposes the candidate repository to sibling modules that join
// against the profile row.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "candidates"
}

// RegisterRoutes mounts the candidate routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.V1)
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterCandidateRoutes(ctx.Candidate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
