// Package handler exposes the candidate lifecycle over HTTP.
package handler

import (
	"net/http"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/service"
	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/transport"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for candidates.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new candidates handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the unauthenticated registration route.
// Identity capture happens before the candidate can hold a token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates/register", h.Register)
}

// RegisterAdminRoutes registers the admin-facing candidate routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates", h.List)
	rg.GET("/candidates/:phone", h.Get)
	rg.PATCH("/candidates/:phone", h.UpdateProfile)
	rg.POST("/candidates/:phone/temp-id", h.IssueTempID)
	rg.PUT("/candidates/:phone/status", h.UpdateStatus)
	rg.POST("/candidates/:phone/consent/review", h.ReviewConsent)
	rg.PUT("/candidates/:phone/docs-deadline", h.SetDocsDeadline)
	rg.DELETE("/candidates/:phone", h.Purge)
}

// RegisterCandidateRoutes registers the candidate-facing routes.
func (h *Handler) RegisterCandidateRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.POST("/consent", h.SubmitConsent)
}

func adminActor(c *gin.Context, identity httpkit.Identity) gateway.Actor {
	return gateway.Actor{
		Role:    gateway.RoleAdmin,
		Subject: identity.Subject(),
		Origin:  c.GetHeader("Origin"),
	}
}

// Register handles POST /api/v1/candidates/register
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	actor := gateway.Actor{
		Role:    gateway.RoleFC,
		Subject: req.Phone,
		Origin:  c.GetHeader("Origin"),
	}
	result, err := h.svc.RegisterIdentity(c.Request.Context(), actor, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/admin/candidates
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get handles GET /api/v1/admin/candidates/:phone
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), c.Param("phone"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateProfile handles PATCH /api/v1/admin/candidates/:phone
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateProfile(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// IssueTempID handles POST /api/v1/admin/candidates/:phone/temp-id
func (h *Handler) IssueTempID(c *gin.Context) {
	var req transport.IssueTempIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.IssueTempID(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req.TempID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStatus handles PUT /api/v1/admin/candidates/:phone/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReviewConsent handles POST /api/v1/admin/candidates/:phone/consent/review
func (h *Handler) ReviewConsent(c *gin.Context) {
	var req transport.ReviewConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ReviewConsent(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req.Approve, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetDocsDeadline handles PUT /api/v1/admin/candidates/:phone/docs-deadline
func (h *Handler) SetDocsDeadline(c *gin.Context) {
	var req transport.SetDocsDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.svc.SetDocsDeadline(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req.Deadline)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

// Purge handles DELETE /api/v1/admin/candidates/:phone
func (h *Handler) Purge(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.svc.Purge(c.Request.Context(), adminActor(c, identity), c.Param("phone"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"ok": true})
}

// Me handles GET /api/v1/fc/me
func (h *Handler) Me(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), identity.Phone())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitConsent handles POST /api/v1/fc/consent
func (h *Handler) SubmitConsent(c *gin.Context) {
	var req transport.SubmitConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	actor := gateway.Actor{
		Role:    gateway.RoleFC,
		Subject: identity.Phone(),
		Origin:  c.GetHeader("Origin"),
	}
	result, err := h.svc.SubmitConsent(c.Request.Context(), actor, identity.Phone(), req.ConsentDate)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
