// Package handler exposes the appointment track operations over HTTP.
package handler

import (
	"net/http"

	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/service"
	"github.com/jj8127/Appointment-Process-sub000/internal/appointments/transport"
	"github.com/jj8127/Appointment-Process-sub000/internal/gateway"
	"github.com/jj8127/Appointment-Process-sub000/platform/httpkit"
	"github.com/jj8127/Appointment-Process-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for appointments.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAdminRoutes registers the admin-facing appointment routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidates/:phone/appointment", h.AdminState)
	rg.PUT("/candidates/:phone/appointment/schedule", h.Schedule)
	rg.POST("/candidates/:phone/appointment/confirm", h.Confirm)
	rg.POST("/candidates/:phone/appointment/reject", h.Reject)
}

// RegisterCandidateRoutes registers the candidate-facing appointment routes.
func (h *Handler) RegisterCandidateRoutes(rg *gin.RouterGroup) {
	rg.GET("/appointment", h.MyState)
	rg.POST("/appointment/date", h.SubmitDate)
}

func adminActor(c *gin.Context, identity httpkit.Identity) gateway.Actor {
	return gateway.Actor{
		Role:    gateway.RoleAdmin,
		Subject: identity.Subject(),
		Origin:  c.GetHeader("Origin"),
	}
}

// AdminState handles GET /api/v1/admin/candidates/:phone/appointment
func (h *Handler) AdminState(c *gin.Context) {
	result, err := h.svc.State(c.Request.Context(), c.Param("phone"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Schedule handles PUT /api/v1/admin/candidates/:phone/appointment/schedule
func (h *Handler) Schedule(c *gin.Context) {
	var req transport.ScheduleRequest
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

	result, err := h.svc.Schedule(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Confirm handles POST /api/v1/admin/candidates/:phone/appointment/confirm
func (h *Handler) Confirm(c *gin.Context) {
	var req transport.ConfirmRequest
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

	result, err := h.svc.Confirm(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Reject handles POST /api/v1/admin/candidates/:phone/appointment/reject
func (h *Handler) Reject(c *gin.Context) {
	var req transport.RejectRequest
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

	result, err := h.svc.Reject(c.Request.Context(), adminActor(c, identity), c.Param("phone"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MyState handles GET /api/v1/fc/appointment
func (h *Handler) MyState(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.State(c.Request.Context(), identity.Phone())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitDate handles POST /api/v1/fc/appointment/date
func (h *Handler) SubmitDate(c *gin.Context) {
	var req transport.SubmitDateRequest
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
	result, err := h.svc.SubmitDate(c.Request.Context(), actor, identity.Phone(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
