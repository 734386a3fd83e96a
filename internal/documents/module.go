// Package documents wires the document request, upload and review flows.
package documents

import (
	candrepo "github.com/jj8127/Appointment-Process-sub000/internal/candidates/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/catalog"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/handler"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/repository"
	"github.com/jj8127/Appointment-Process-sub000/internal/documents/service"
	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documents bounded context.
type Module struct {
	handler *handler.Handler
	catalog *catalog.Catalog
}

// NewModule wires the documents module.
func NewModule(
	pool *pgxpool.Pool,
	candidates *candrepo.Repository,
	guard *gateway.Gateway,
	notifier service.Notifier,
	store service.ObjectStore,
	bucket string,
	cat *catalog.Catalog,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(repository.New(pool), candidates, guard, notifier, store, bucket, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		catalog: cat,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "documents"
}

// RegisterRoutes mounts the document routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin)
	m.handler.RegisterCandidateRoutes(ctx.Candidate)

	// The catalog is reference data for both dashboards.
	ctx.Protected.GET("/documents/catalog", m.listCatalog)
}

func (m *Module) listCatalog(c *gin.Context) {
	track := catalog.Track(c.DefaultQuery("track", string(catalog.TrackAny)))
	entries := m.catalog.Entries()
	if track != catalog.TrackAny {
		entries = m.catalog.ForTrack(track)
	}
	httpkit.OK(c, gin.H{"documents": entries})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
