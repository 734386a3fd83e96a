package notification

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jj8127/Appointment-Process-sub000/internal/events"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	apphttp "github.com/jj8127/Appointment-Process-sub000/internal/http"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/devicetoken"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/inapp"
	"github.com/jj8127/Appointment-Process-sub000/internal/notification/outbox"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context: log storage, outbox enqueue,
// device token registry and the list/read HTTP surface.
type Module struct {
	service *Service
	inapp   *inapp.Repository
	tokens  *devicetoken.Repository
	guard   *gateway.Gateway
	log     *logger.Logger
}

// NewModule wires the notification module and subscribes its event handlers.
func NewModule(pool *pgxpool.Pool, guard *gateway.Gateway, bus events.Bus, log *logger.Logger, pushEnabled bool, adminEmail string) *Module {
	inappRepo := inapp.NewRepository(pool)
	outboxRepo := outbox.New(pool)
	svc := NewService(inappRepo, outboxRepo, log, pushEnabled, adminEmail)

	m := &Module{
		service: svc,
		inapp:   inappRepo,
		tokens:  devicetoken.New(pool),
		guard:   guard,
		log:     log,
	}
	m.subscribe(bus)
	return m
}

// Service returns the dispatcher for other modules to enqueue through.
func (m *Module) Service() *Service {
	return m.service
}

// Tokens returns the device token repository for the purge cascade and the
// delivery worker.
func (m *Module) Tokens() *devicetoken.Repository {
	return m.tokens
}

// InApp returns the notification log repository for the purge cascade.
func (m *Module) InApp() *inapp.Repository {
	return m.inapp
}

// subscribe registers the cross-module reactions: candidate-side events
// that should surface on the admin dashboard.
func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe(events.CandidateRegistered{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, e events.Event) error {
			ev := e.(events.CandidateRegistered)
			m.service.NotifyAdmins(ctx,
				"신규 FC 등록",
				fmt.Sprintf("%s (%s) 님이 등록되었습니다.", ev.Name, ev.Phone),
				"candidate")
			return nil
		}))

	bus.Subscribe(events.ConsentSubmitted{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, e events.Event) error {
			ev := e.(events.ConsentSubmitted)
			m.service.NotifyAdmins(ctx,
				"수당동의 제출",
				fmt.Sprintf("%s 님이 수당동의서를 제출했습니다. (%s)", ev.Name, ev.ConsentDate),
				"consent")
			return nil
		}))

	bus.Subscribe(events.DocumentUploaded{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, e events.Event) error {
			ev := e.(events.DocumentUploaded)
			m.service.NotifyAdmins(ctx,
				"서류 제출",
				fmt.Sprintf("%s 님이 '%s' 서류를 제출했습니다.", ev.Phone, ev.DocType),
				"document")
			return nil
		}))
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes mounts the notification routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Candidate.GET("/notifications", m.listMine)
	ctx.Candidate.POST("/notifications/:id/read", m.markRead)
	ctx.Candidate.POST("/push-tokens", m.registerToken)
	ctx.Candidate.DELETE("/push-tokens/:token", m.unregisterToken)

	ctx.Admin.GET("/notifications", m.listAdmin)
	ctx.Admin.POST("/notifications/:id/read", m.markRead)
}

func (m *Module) listMine(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	limit, offset := pagination(c)
	items, total, err := m.inapp.ListForCandidate(c.Request.Context(), id.Phone(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items, "total": total})
}

func (m *Module) listAdmin(c *gin.Context) {
	limit, offset := pagination(c)
	items, total, err := m.inapp.ListForAdmins(c.Request.Context(), limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items, "total": total})
}

func (m *Module) markRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	if httpkit.HandleError(c, m.inapp.MarkRead(c.Request.Context(), id)) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

type registerTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

func (m *Module) registerToken(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "token is required", nil)
		return
	}

	actor := gateway.Actor{Role: gateway.RoleFC, Subject: id.Phone(), Origin: c.GetHeader("Origin")}
	if httpkit.HandleError(c, m.guard.Authorize(c.Request.Context(), actor, gateway.ActionRegisterPushToken, id.Phone())) {
		return
	}

	if httpkit.HandleError(c, m.tokens.Register(c.Request.Context(), id.Phone(), req.Token)) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func (m *Module) unregisterToken(c *gin.Context) {
	if httpkit.HandleError(c, m.tokens.Unregister(c.Request.Context(), c.Param("token"))) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
