// Package auth provides the authentication bounded context module.
package auth

import (
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/handler"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/auth/service"
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/platform/config"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the auth module.
func NewModule(pool *pgxpool.Pool, candidates *candrepo.Repository, cfg config.AuthServiceConfig, val *validator.Validator) *Module {
	svc := service.New(repository.New(pool), candidates, cfg)
	return &Module{handler: handler.New(svc, val)}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the auth routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
